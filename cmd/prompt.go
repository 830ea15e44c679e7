package main

import (
	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/n10ty/authform"
	"github.com/pkg/errors"
)

var errAborted = errors.New("aborted")

// Prompter asks the user for values missing from the command line.
type Prompter interface {
	Input(message string, validate func(string) error) (string, error)
	Password(message string, validate func(string) error) (string, error)
}

type surveyPrompter struct{}

func (surveyPrompter) Input(message string, validate func(string) error) (string, error) {
	var out string
	err := survey.AskOne(&survey.Input{Message: message}, &out, validator(validate))
	return out, translateSurveyErr(err)
}

func (surveyPrompter) Password(message string, validate func(string) error) (string, error) {
	var out string
	err := survey.AskOne(&survey.Password{Message: message}, &out, validator(validate))
	return out, translateSurveyErr(err)
}

func validator(fn func(string) error) survey.AskOpt {
	return survey.WithValidator(func(ans interface{}) error {
		if fn == nil {
			return nil
		}
		s, _ := ans.(string)
		return fn(s)
	})
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return errAborted
	}
	return err
}

func validEmail(s string) error {
	if !authform.EmailValid(s) {
		return errors.New("not an email address")
	}
	return nil
}

func validPassword(s string) error {
	if !authform.PasswordValid(s) {
		return errors.Errorf("at least %d characters", authform.MinPasswordLength)
	}
	return nil
}

// ask returns value, prompting for it when empty.
func ask(p Prompter, value, message string, secret bool, validate func(string) error) (string, error) {
	if value != "" {
		return value, nil
	}
	if secret {
		return p.Password(message, validate)
	}
	return p.Input(message, validate)
}
