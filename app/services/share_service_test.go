package services

import (
	"errors"
	"testing"

	"inkwell/app/forms"
	"inkwell/app/mailer"
	"inkwell/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingMailer struct {
	sent []mailer.Message
	err  error
}

func (m *recordingMailer) Send(msg mailer.Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func TestShareService(t *testing.T) {
	post := &models.Post{ID: 3, Title: "Who was Django Reinhardt?", Slug: "who-was-django-reinhardt"}
	url := "https://blog.example.com/who-was-django-reinhardt/"

	t.Run("sends one message", func(t *testing.T) {
		m := &recordingMailer{}
		service := NewShareService(m, "blog@example.com")
		form := &forms.ShareForm{Name: "Ann", Email: "ann@example.com", To: "bob@example.com", Comments: "Worth it"}

		require.NoError(t, service.Share(post, url, form))
		require.Len(t, m.sent, 1)

		msg := m.sent[0]
		assert.Equal(t, "blog@example.com", msg.From)
		assert.Equal(t, []string{"bob@example.com"}, msg.To)
		assert.Equal(t, `Ann (ann@example.com) recommends you reading "Who was Django Reinhardt?"`, msg.Subject)
		assert.Equal(t, "Read \"Who was Django Reinhardt?\" at "+url+"\n\nAnn's comments: Worth it", msg.Body)
	})

	t.Run("empty comments", func(t *testing.T) {
		msg := ShareMessage(post, url, &forms.ShareForm{Name: "Ann", Email: "ann@example.com", To: "bob@example.com"}, "blog@example.com")
		assert.Equal(t, "Read \"Who was Django Reinhardt?\" at "+url+"\n\nAnn's comments: ", msg.Body)
	})

	t.Run("invalid form sends nothing", func(t *testing.T) {
		m := &recordingMailer{}
		service := NewShareService(m, "blog@example.com")
		form := &forms.ShareForm{Name: "A name that is far too long to fit", Email: "ann@example.com"}

		err := service.Share(post, url, form)
		verrs, ok := forms.AsValidationErrors(err)
		require.True(t, ok)
		assert.Contains(t, verrs, "name")
		assert.Contains(t, verrs, "to")
		assert.Empty(t, m.sent)
	})

	t.Run("mail failure propagates", func(t *testing.T) {
		boom := errors.New("smtp down")
		service := NewShareService(&recordingMailer{err: boom}, "blog@example.com")
		form := &forms.ShareForm{Name: "Ann", Email: "ann@example.com", To: "bob@example.com"}

		err := service.Share(post, url, form)
		assert.ErrorIs(t, err, boom)
		_, ok := forms.AsValidationErrors(err)
		assert.False(t, ok)
	})
}
