package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"unicode/utf8"

	"cmenu/internal/model"
	"cmenu/internal/repository"
)

const maxGreetingLength = 2000

// GreetingService manages the greetings shown at sign-in.
type GreetingService interface {
	Add(ctx context.Context, text string) (*model.Greeting, error)
	List(ctx context.Context) ([]model.Greeting, error)
	// Random returns a random greeting text, or "" when there are none.
	Random(ctx context.Context) (string, error)
}

type greetingService struct {
	greetings repository.GreetingRepository
}

func NewGreetingService(greetings repository.GreetingRepository) GreetingService {
	return &greetingService{greetings: greetings}
}

func (s *greetingService) Add(ctx context.Context, text string) (*model.Greeting, error) {
	if strings.TrimSpace(text) == "" || utf8.RuneCountInString(text) > maxGreetingLength {
		return nil, ErrInvalidGreeting
	}
	g := &model.Greeting{Text: text}
	if err := s.greetings.Create(ctx, g); err != nil {
		return nil, fmt.Errorf("failed to add greeting: %w", err)
	}
	return g, nil
}

func (s *greetingService) List(ctx context.Context) ([]model.Greeting, error) {
	greetings, err := s.greetings.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list greetings: %w", err)
	}
	return greetings, nil
}

func (s *greetingService) Random(ctx context.Context) (string, error) {
	n, err := s.greetings.Count(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to count greetings: %w", err)
	}
	if n == 0 {
		return "", nil
	}
	g, err := s.greetings.At(ctx, rand.IntN(int(n)))
	if err != nil {
		return "", fmt.Errorf("failed to pick greeting: %w", err)
	}
	return g.Text, nil
}
