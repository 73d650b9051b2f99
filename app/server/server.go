// Package server is the HTTP shim between the messaging platform's webhook
// and the inbound queue. No dialogue logic lives here.
package server

import (
	"context"
	"log/slog"
	"time"

	"nspire/app/client/whatsapp"
	"nspire/app/config"
	"nspire/app/service/queue"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/do"
)

type Service struct {
	cfg      *config.Config
	queueSvc *queue.Service
	app      *fiber.App
}

func New(di *do.Injector) (*Service, error) {
	s := &Service{
		cfg:      do.MustInvoke[*config.Config](di),
		queueSvc: do.MustInvoke[*queue.Service](di),
	}

	s.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s.app.Get("/", s.handleHealth)
	s.app.Get("/webhook", s.handleVerify)
	s.app.Post("/webhook", s.handleWebhook)

	return s, nil
}

func (s *Service) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()

		if err := s.app.ShutdownWithTimeout(5 * time.Second); err != nil {
			slog.Error("Server shutdown failed", "error", err)
		}
	}()

	slog.Info("Webhook server listening", "addr", s.cfg.Server.Addr)

	return s.app.Listen(s.cfg.Server.Addr)
}

func (s *Service) handleHealth(c *fiber.Ctx) error {
	return c.SendString("Nspire bot is running!")
}

// handleVerify answers the platform's one-time subscription handshake:
// echo the challenge when the verify token matches, reject otherwise.
func (s *Service) handleVerify(c *fiber.Ctx) error {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && token == s.cfg.WhatsApp.VerifyToken {
		slog.Info("Webhook subscription verified")
		return c.SendString(challenge)
	}

	return c.SendStatus(fiber.StatusForbidden)
}

// handleWebhook accepts a delivery batch and hands every message to the
// queue. Always answers 200 fast; the platform retries on anything else.
func (s *Service) handleWebhook(c *fiber.Ctx) error {
	var payload whatsapp.WebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		slog.Warn("Undecodable webhook payload", "error", err)
		return c.SendStatus(fiber.StatusOK)
	}

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			for _, msg := range change.Value.Messages {
				inbound := queue.Message{
					UserID: msg.From,
					Type:   msg.Type,
				}
				if msg.Type == "text" && msg.Text != nil {
					inbound.Text = msg.Text.Body
				}

				s.queueSvc.Add(inbound)
			}
		}
	}

	return c.SendStatus(fiber.StatusOK)
}
