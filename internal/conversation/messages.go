package conversation

import "fmt"

const (
	messageRecognizing = "음성을 인식하고 있어요..."
	messageThinking    = "답변을 생각하고 있어요..."

	messageRecognitionFailedMarker = "음성을 인식하지 못했어요."

	messageCaptureUnavailable  = "이 환경에서는 음성 녹음을 사용할 수 없어요. 최신 버전의 크롬 또는 사파리에서 이용해 주세요."
	messagePermissionDenied    = "마이크 사용 권한이 필요해요. 브라우저 설정에서 마이크 권한을 허용한 뒤 다시 시도해 주세요."
	messageRecordingFailed     = "녹음을 완료하지 못했어요. 다시 시도해 주세요."
	messageTranscriptionFailed = "음성 인식에 실패했어요. 다시 한번 말해 주세요."
	messageReplyFailed         = "답변을 받아오지 못했어요. 다시 시도해 주세요."
	messageSessionStartFailed  = "대화를 시작하지 못했어요. 잠시 후 다시 시도해 주세요."
	messageSessionEndFailed    = "대화를 종료하지 못했어요. 잠시 후 다시 시도해 주세요."
)

func endConfirmMessage(turnCount, minTurns int) string {
	return fmt.Sprintf("지금까지 %d번 말했어요. %d번 미만으로 종료하면 대화 기록이 저장되지 않아요. 정말 종료할까요?", turnCount, minTurns)
}
