package worker

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/eventflow/backend/internal/attendees"
	"github.com/eventflow/backend/internal/campaigns"
	"github.com/eventflow/backend/internal/models"
	"github.com/eventflow/backend/pkg/mailer"
	"github.com/eventflow/backend/pkg/queue"
)

// CampaignProcessor drains the campaign queue and delivers emails one
// recipient at a time.
type CampaignProcessor struct {
	queue     *queue.Queue
	campaigns *campaigns.Repository
	attendees *attendees.Repository
	mailer    *mailer.Mailer
	logger    *zap.Logger
}

// NewCampaignProcessor creates a campaign worker.
func NewCampaignProcessor(q *queue.Queue, c *campaigns.Repository, a *attendees.Repository, m *mailer.Mailer, logger *zap.Logger) *CampaignProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CampaignProcessor{queue: q, campaigns: c, attendees: a, mailer: m, logger: logger}
}

// Run blocks on the queue until ctx is cancelled.
func (p *CampaignProcessor) Run(ctx context.Context) error {
	p.logger.Info("campaign worker started")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		job, _, err := p.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.logger.Error("dequeue failed", zap.Error(err))
			continue
		}
		if job == nil {
			continue
		}
		if job.Type != queue.JobTypeCampaignSend {
			p.logger.Warn("unknown job type", zap.String("type", string(job.Type)), zap.String("job_id", job.ID))
			continue
		}
		if err := p.process(ctx, job); err != nil {
			p.logger.Error("campaign job failed", zap.Error(err), zap.String("job_id", job.ID))
			if err := p.queue.Retry(ctx, job); err != nil {
				p.logger.Error("retry failed", zap.Error(err), zap.String("job_id", job.ID))
			}
		}
	}
}

func (p *CampaignProcessor) process(ctx context.Context, job *queue.Job) error {
	var payload queue.CampaignSendPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return err
	}
	campaign, err := p.campaigns.GetByID(ctx, payload.OrganizationID, payload.CampaignID)
	if err != nil {
		return err
	}

	if payload.IsTest {
		return p.sendTest(ctx, campaign, payload.TestRecipient)
	}

	recipients, err := p.resolveRecipients(ctx, campaign)
	if err != nil {
		return err
	}

	sent := 0
	var delivered []string
	for _, to := range recipients {
		if err := p.mailer.Send(to, campaign.Subject, campaign.Content); err != nil {
			p.logger.Warn("delivery failed", zap.String("to", to), zap.String("campaign_id", campaign.ID.String()), zap.Error(err))
			continue
		}
		sent++
		delivered = append(delivered, to)
	}

	status := models.CampaignStatusCompleted
	if sent == 0 && len(recipients) > 0 {
		status = models.CampaignStatusFailed
	}
	if err := p.campaigns.Finish(ctx, campaign.OrganizationID, campaign.ID, status, sent); err != nil {
		return err
	}

	logStatus := models.EmailLogStatusSent
	if status == models.CampaignStatusFailed {
		logStatus = models.EmailLogStatusFailed
	}
	if err := p.campaigns.InsertLog(ctx, &models.EmailLog{
		CampaignID: &campaign.ID,
		Subject:    campaign.Subject,
		Content:    campaign.Content,
		Recipients: delivered,
		Status:     logStatus,
	}); err != nil {
		p.logger.Error("email log insert failed", zap.Error(err), zap.String("campaign_id", campaign.ID.String()))
	}

	p.logger.Info("campaign delivered",
		zap.String("campaign_id", campaign.ID.String()),
		zap.Int("recipients", len(recipients)),
		zap.Int("sent", sent))
	return nil
}

func (p *CampaignProcessor) sendTest(ctx context.Context, campaign *models.EmailCampaign, to string) error {
	if err := p.mailer.Send(to, campaign.Subject, campaign.Content); err != nil {
		return err
	}
	if err := p.campaigns.InsertLog(ctx, &models.EmailLog{
		CampaignID: &campaign.ID,
		Subject:    campaign.Subject,
		Content:    campaign.Content,
		Recipients: []string{to},
		Status:     models.EmailLogStatusSent,
		IsTest:     true,
	}); err != nil {
		p.logger.Error("email log insert failed", zap.Error(err), zap.String("campaign_id", campaign.ID.String()))
	}
	return nil
}

// resolveRecipients lists attendee emails for the campaign's audience. A
// linked event narrows it to that event's attendees, otherwise the whole
// organization is addressed. Cancelled attendees are skipped and duplicate
// addresses collapse to one delivery.
func (p *CampaignProcessor) resolveRecipients(ctx context.Context, campaign *models.EmailCampaign) ([]string, error) {
	list, err := p.attendees.List(ctx, campaign.OrganizationID, campaign.LinkedEventID)
	if err != nil {
		return nil, err
	}
	seen := map[string]struct{}{}
	var out []string
	for _, a := range list {
		if a.Status == models.AttendeeStatusCancelled || a.Email == "" {
			continue
		}
		if _, dup := seen[a.Email]; dup {
			continue
		}
		seen[a.Email] = struct{}{}
		out = append(out, a.Email)
	}
	return out, nil
}
