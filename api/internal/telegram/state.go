package telegram

import "sync"

// Per-chat session state. Only upload handshakes and display settings live
// here — pipeline state never persists across requests.
type chatState struct {
	mu sync.Mutex

	Language string // explanation language for PDF flows
	Count    int    // question count for /content

	AwaitPDF bool
	AwaitBi  bool

	PDF     []byte // pending uploaded PDF, consumed by /mcq or /content
	PDFName string
}

var states sync.Map // chatID -> *chatState

func getState(chatID int64) *chatState {
	if v, ok := states.Load(chatID); ok {
		return v.(*chatState)
	}
	st := &chatState{Language: "Gujarati", Count: 30}
	actual, _ := states.LoadOrStore(chatID, st)
	return actual.(*chatState)
}
