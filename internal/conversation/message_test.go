package conversation

import "testing"

func TestLogAppend_AssignsMonotonicIDs(t *testing.T) {
	log := NewLog()
	first := log.Append(SpeakerUser, "a")
	second := log.Append(SpeakerAI, "b")
	if first == second {
		t.Fatalf("expected distinct ids, got %d and %d", first, second)
	}
	if second <= first {
		t.Fatalf("expected ids to increase, got %d then %d", first, second)
	}
}

func TestLogReplaceText_KeepsSpeakerAndTimestamp(t *testing.T) {
	log := NewLog()
	id := log.Append(SpeakerUser, messageRecognizing)
	before, _ := log.Get(id)

	if !log.ReplaceText(id, "안녕하세요") {
		t.Fatal("expected replace to succeed")
	}
	after, _ := log.Get(id)
	if after.Text != "안녕하세요" {
		t.Fatalf("unexpected text: %q", after.Text)
	}
	if after.Speaker != before.Speaker || after.Timestamp != before.Timestamp {
		t.Fatal("speaker and timestamp must not change on text replacement")
	}
}

func TestLogReplaceText_UnknownID(t *testing.T) {
	log := NewLog()
	if log.ReplaceText(42, "x") {
		t.Fatal("expected replace of unknown id to fail")
	}
}

func TestLogRemove(t *testing.T) {
	log := NewLog()
	keep := log.Append(SpeakerUser, "keep")
	drop := log.Append(SpeakerAI, "drop")

	if !log.Remove(drop) {
		t.Fatal("expected remove to succeed")
	}
	if log.Remove(drop) {
		t.Fatal("expected second remove to fail")
	}
	msgs := log.Snapshot()
	if len(msgs) != 1 || msgs[0].ID != keep {
		t.Fatalf("unexpected messages after remove: %+v", msgs)
	}
}

func TestLogSetTranslation_StoresAtMostOnce(t *testing.T) {
	log := NewLog()
	id := log.Append(SpeakerAI, "반갑습니다")

	if !log.SetTranslation(id, "nice to meet you") {
		t.Fatal("expected first translation to be stored")
	}
	if log.SetTranslation(id, "overwritten") {
		t.Fatal("expected second translation to be rejected")
	}
	msg, _ := log.Get(id)
	if msg.Translation != "nice to meet you" {
		t.Fatalf("unexpected translation: %q", msg.Translation)
	}
}

func TestLogSnapshot_IsACopy(t *testing.T) {
	log := NewLog()
	id := log.Append(SpeakerUser, "original")
	snap := log.Snapshot()
	snap[0].Text = "mutated"
	msg, _ := log.Get(id)
	if msg.Text != "original" {
		t.Fatal("snapshot mutation must not affect the log")
	}
}
