package service

import (
	"sync"
)

// stubNotifier records messages and answers every prompt with answer.
type stubNotifier struct {
	mu      sync.Mutex
	answer  bool
	toasts  []string
	alerts  []string
	prompts []string
}

func newStubNotifier(answer bool) *stubNotifier { return &stubNotifier{answer: answer} }

func (s *stubNotifier) Toast(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.toasts = append(s.toasts, msg)
}

func (s *stubNotifier) Alert(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = append(s.alerts, msg)
}

func (s *stubNotifier) Confirm(prompt string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, prompt)
	return s.answer
}

func ptr[T any](v T) *T { return &v }
