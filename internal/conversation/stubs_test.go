package conversation

import (
	"context"
	"errors"
	"sync"

	"github.com/webplotcentersj-hash/clinicasj/internal/booking"
)

type stubLLMClient struct {
	mu        sync.Mutex
	response  LLMResponse
	err       error
	lastReq   LLMRequest
	requests  []LLMRequest
	responses []LLMResponse
	calls     int
	block     bool
}

func (s *stubLLMClient) Complete(ctx context.Context, req LLMRequest) (LLMResponse, error) {
	s.mu.Lock()
	s.lastReq = req
	s.requests = append(s.requests, req)
	call := s.calls
	s.calls++
	s.mu.Unlock()

	if s.block {
		<-ctx.Done()
		return LLMResponse{}, ctx.Err()
	}
	if s.err != nil {
		return LLMResponse{}, s.err
	}
	if len(s.responses) > 0 {
		if call >= len(s.responses) {
			return LLMResponse{}, errors.New("no scripted response")
		}
		return s.responses[call], nil
	}
	return s.response, nil
}

func (s *stubLLMClient) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type stubSubmitter struct {
	mu       sync.Mutex
	err      error
	requests []booking.Request
}

func (s *stubSubmitter) Submit(_ context.Context, r booking.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, r)
	return s.err
}

func (s *stubSubmitter) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

type stubProvider struct {
	reply Reply
	err   error
	calls int
}

func (s *stubProvider) Reply(context.Context, string, []Turn) (Reply, error) {
	s.calls++
	return s.reply, s.err
}

var testClinic = booking.Clinic{Name: "Sanatorio San Juan", Phone: "0800-SANJUAN (7265)"}
