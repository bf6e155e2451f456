package conversation

import (
	"sync"
	"time"
)

type Speaker string

const (
	SpeakerUser Speaker = "user"
	SpeakerAI   Speaker = "ai"
)

const timestampLayout = "15:04"

// Message is one line of the conversation. Speaker and Timestamp are fixed
// at creation; Text and Translation follow a create-placeholder /
// replace-on-resolution lifecycle.
type Message struct {
	ID          int64
	Speaker     Speaker
	Text        string
	Translation string
	Timestamp   string
}

// Log holds the in-memory conversation history for one session. Ids come
// from a monotonic counter scoped to the log, so messages created
// back-to-back in the same instant cannot collide.
type Log struct {
	mu     sync.Mutex
	nextID int64
	msgs   []Message
}

func NewLog() *Log {
	return &Log{}
}

func (l *Log) Append(speaker Speaker, text string) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextID++
	l.msgs = append(l.msgs, Message{
		ID:        l.nextID,
		Speaker:   speaker,
		Text:      text,
		Timestamp: time.Now().Format(timestampLayout),
	})
	return l.nextID
}

func (l *Log) ReplaceText(id int64, text string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.msgs {
		if l.msgs[i].ID == id {
			l.msgs[i].Text = text
			return true
		}
	}
	return false
}

func (l *Log) Remove(id int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.msgs {
		if l.msgs[i].ID == id {
			l.msgs = append(l.msgs[:i], l.msgs[i+1:]...)
			return true
		}
	}
	return false
}

// SetTranslation stores a translation once. Later calls for the same id
// leave the first value in place.
func (l *Log) SetTranslation(id int64, translation string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.msgs {
		if l.msgs[i].ID == id {
			if l.msgs[i].Translation != "" {
				return false
			}
			l.msgs[i].Translation = translation
			return true
		}
	}
	return false
}

func (l *Log) Get(id int64) (Message, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, m := range l.msgs {
		if m.ID == id {
			return m, true
		}
	}
	return Message{}, false
}

func (l *Log) Snapshot() []Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Message, len(l.msgs))
	copy(out, l.msgs)
	return out
}

func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.msgs)
}
