package authform

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// FieldToken is the field of a follow-up form that receives the token issued
// by the previous step.
const FieldToken = "token"

var (
	ErrNoToken     = errors.New("success payload carries no token")
	ErrNoNavigator = errors.New("submitter has no navigator")
	ErrNoTarget    = errors.New("follow-up has no link target")
)

// FollowUp is what a page does after a successful submission. The form
// stays guarded while it runs.
type FollowUp func(ctx context.Context, s *Submitter, p Payload) error

// Chain copies the payload's token into target and submits target at once.
func Chain(target *Form) FollowUp {
	return func(ctx context.Context, s *Submitter, p Payload) error {
		return s.chain(ctx, target, p)
	}
}

// Navigate loads link at once.
func Navigate(link string) FollowUp {
	return func(ctx context.Context, s *Submitter, p Payload) error {
		if err := s.canNavigate(link); err != nil {
			return err
		}
		return s.navigate(ctx, link)
	}
}

// NotifyThenNavigate shows key as a success toast and, after delay, loads
// link.
func NotifyThenNavigate(key string, delay time.Duration, link string) FollowUp {
	return func(ctx context.Context, s *Submitter, p Payload) error {
		if err := s.canNavigate(link); err != nil {
			return err
		}
		s.Notify(LevelSuccess, key)
		if err := wait(ctx, delay); err != nil {
			return errors.Wrap(err, "waiting before navigation")
		}
		return s.navigate(ctx, link)
	}
}

// NotifyThenChain shows key as a success toast and, after delay, chains
// into target. Nothing is shown when the chain cannot happen.
func NotifyThenChain(key string, delay time.Duration, target *Form) FollowUp {
	return func(ctx context.Context, s *Submitter, p Payload) error {
		token, err := s.chainToken(target, p)
		if err != nil {
			return err
		}
		s.Notify(LevelSuccess, key)
		if err := wait(ctx, delay); err != nil {
			return errors.Wrap(err, "waiting before chained submit")
		}
		return s.submitChained(ctx, target, token)
	}
}

func (s *Submitter) canNavigate(link string) error {
	if s.navigator == nil {
		return ErrNoNavigator
	}
	if link == "" {
		return ErrNoTarget
	}
	return nil
}

func (s *Submitter) navigate(ctx context.Context, link string) error {
	return errors.Wrapf(s.navigator.Navigate(ctx, link), "navigating to %s", link)
}

func (s *Submitter) chain(ctx context.Context, target *Form, p Payload) error {
	token, err := s.chainToken(target, p)
	if err != nil {
		return err
	}
	return s.submitChained(ctx, target, token)
}

// chainToken checks that target can be chained into and returns the token
// it will carry.
func (s *Submitter) chainToken(target *Form, p Payload) (string, error) {
	if s.navigator == nil {
		return "", ErrNoNavigator
	}
	if target == nil {
		return "", errors.Wrap(ErrFormNotFound, "chained form")
	}
	token, ok := p.String(FieldToken)
	if !ok || token == "" {
		return "", ErrNoToken
	}
	if target.Field(FieldToken) == nil {
		return "", errors.Wrapf(ErrFieldUnknown, "form %s: %s", target.ID, FieldToken)
	}
	return token, nil
}

func (s *Submitter) submitChained(ctx context.Context, target *Form, token string) error {
	if err := target.Set(FieldToken, token); err != nil {
		return err
	}
	s.logger.WithField("form", target.ID).Debug("submitting chained form")
	return errors.Wrapf(s.navigator.SubmitForm(ctx, target), "submitting %s", target.ID)
}
