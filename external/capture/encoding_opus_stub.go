//go:build !opus

package capture

func newOpusEncoder() encoder {
	return nil
}
