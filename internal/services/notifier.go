package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"hragent/hiring-pipeline/internal/apperrors"
	"hragent/hiring-pipeline/internal/models"
	"hragent/hiring-pipeline/internal/repositories"
	"hragent/hiring-pipeline/internal/statuses"
)

const (
	ChannelEmail    = "email"
	ChannelWhatsApp = "whatsapp"
)

type BulkSendSummary struct {
	Success int `json:"success"`
	Failed  int `json:"failed"`
}

// NotificationDispatcher delivers status-driven and broadcast messages.
// Every path is best-effort from the caller's point of view: the pipeline
// never rolls back because a message did not go out.
type NotificationDispatcher interface {
	SendStatusUpdate(candidate *models.Candidate, newStatus string) error
	NotifyShortlisted(candidate *models.Candidate, job *models.JobPosting) error
	SendBulk(candidateIDs []uint, channel, subject, message, actor string) (*BulkSendSummary, error)
}

type notificationDispatcher struct {
	mailer        EmailSender
	whatsapp      WhatsAppSender
	candidateRepo repositories.CandidateRepository
	hrEmail       string
}

func NewNotificationDispatcher(
	mailer EmailSender,
	whatsapp WhatsAppSender,
	candidateRepo repositories.CandidateRepository,
	hrEmail string,
) NotificationDispatcher {
	return &notificationDispatcher{
		mailer:        mailer,
		whatsapp:      whatsapp,
		candidateRepo: candidateRepo,
		hrEmail:       hrEmail,
	}
}

// SendStatusUpdate emails the candidate the template for their new status.
// A status without a template is a logged no-op, not an error.
func (n *notificationDispatcher) SendStatusUpdate(candidate *models.Candidate, newStatus string) error {
	tmpl, ok := TemplateForStatus(newStatus)
	if !ok {
		log.Printf("📭 No email template found for status %q. Skipping email.\n", newStatus)
		return nil
	}

	name := candidate.FullName()
	jobTitle := candidate.JobTitle()

	subject := RenderPlaceholders(tmpl.Subject, name, jobTitle)
	body := RenderPlaceholders(tmpl.Body, name, jobTitle)

	return n.mailer.Send(candidate.Email, subject, body)
}

// NotifyShortlisted alerts the HR inbox about an automatically shortlisted
// candidate.
func (n *notificationDispatcher) NotifyShortlisted(candidate *models.Candidate, job *models.JobPosting) error {
	if n.hrEmail == "" {
		log.Println("📭 HR_RECIPIENT_EMAIL is not configured. Cannot send internal alert.")
		return nil
	}

	subject := fmt.Sprintf("New Candidate Shortlisted: %s for %s", candidate.FullName(), job.Title)
	body := fmt.Sprintf(`<html><body>
<h2>New Candidate Alert</h2>
<p>A new candidate has been automatically shortlisted.</p>
<ul>
<li><b>Name:</b> %s</li>
<li><b>Applied for:</b> %s</li>
<li><b>ATS Score:</b> %.2f%%</li>
<li><b>Email:</b> %s</li>
</ul>
<p>Please log in to the hiring portal to review their profile.</p>
</body></html>`, candidate.FullName(), job.Title, candidate.ATSScore, candidate.Email)

	return n.mailer.Send(n.hrEmail, subject, body)
}

// SendBulk broadcasts one message to many candidates over one channel.
// Recipient failures are isolated and every attempt lands in the audit
// trail as "Bulk <Channel> Sent" or "Bulk <Channel> Failed".
func (n *notificationDispatcher) SendBulk(candidateIDs []uint, channel, subject, message, actor string) (*BulkSendSummary, error) {
	if channel != ChannelEmail && channel != ChannelWhatsApp {
		return nil, apperrors.NewValidation("channel %q is not supported", channel)
	}

	candidates, err := n.candidateRepo.FindByIDs(candidateIDs)
	if err != nil {
		return nil, err
	}

	summary := &BulkSendSummary{}
	channelLabel := capitalize(channel)

	for i := range candidates {
		c := &candidates[i]
		if err := n.sendOne(c, channel, subject, message); err != nil {
			log.Printf("❌ Failed to send %s to candidate %d: %v\n", channel, c.ID, err)
			n.recordAttempt(c.ID, fmt.Sprintf("Bulk %s Failed", channelLabel), err.Error(), "System")
			summary.Failed++
			continue
		}
		n.recordAttempt(c.ID, fmt.Sprintf("Bulk %s Sent", channelLabel), "", actor)
		summary.Success++
	}

	return summary, nil
}

func (n *notificationDispatcher) sendOne(c *models.Candidate, channel, subject, message string) error {
	name := c.FullName()
	jobTitle := c.JobTitle()

	body := RenderPlaceholders(message, name, jobTitle)

	switch channel {
	case ChannelEmail:
		renderedSubject := RenderPlaceholders(subject, name, jobTitle)
		return n.mailer.Send(c.Email, renderedSubject, strings.ReplaceAll(body, "\n", "<br>"))
	case ChannelWhatsApp:
		if c.PhoneNumber == nil || *c.PhoneNumber == "" {
			return fmt.Errorf("candidate has no phone number")
		}
		return n.whatsapp.Send(*c.PhoneNumber, body)
	}
	return fmt.Errorf("channel %q is not supported", channel)
}

// recordAttempt writes a delivery entry to the audit trail. Delivery
// history failures are logged only; they must not fail the broadcast.
func (n *notificationDispatcher) recordAttempt(candidateID uint, description, comments, changedBy string) {
	entry := &models.StatusHistory{
		CandidateID:       candidateID,
		StatusCode:        statuses.CodeOf(description),
		StatusDescription: description,
		Comments:          comments,
		ChangedBy:         changedBy,
		ChangedAt:         time.Now(),
	}
	if err := n.candidateRepo.AppendHistory(entry); err != nil {
		log.Printf("⚠️  Failed to record delivery history for candidate %d: %v\n", candidateID, err)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
