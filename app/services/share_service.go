package services

import (
	"fmt"

	"inkwell/app/forms"
	"inkwell/app/mailer"
	"inkwell/app/models"
)

// ShareService recommends posts by email.
type ShareService struct {
	mailer mailer.Mailer
	from   string
}

func NewShareService(m mailer.Mailer, from string) *ShareService {
	return &ShareService{mailer: m, from: from}
}

// Share validates form and mails a recommendation of post, reachable at
// postURL, to the submitted recipient.
func (s *ShareService) Share(post *models.Post, postURL string, form *forms.ShareForm) error {
	if err := form.Validate(); err != nil {
		return err
	}
	msg := ShareMessage(post, postURL, form, s.from)
	if err := s.mailer.Send(msg); err != nil {
		return fmt.Errorf("send share of post %d: %w", post.ID, err)
	}
	return nil
}

// ShareMessage builds the recommendation email.
func ShareMessage(post *models.Post, postURL string, form *forms.ShareForm, from string) mailer.Message {
	return mailer.Message{
		From:    from,
		To:      []string{form.To},
		Subject: fmt.Sprintf("%s (%s) recommends you reading \"%s\"", form.Name, form.Email, post.Title),
		Body:    fmt.Sprintf("Read \"%s\" at %s\n\n%s's comments: %s", post.Title, postURL, form.Name, form.Comments),
	}
}
