package middlewares

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"billing-backend/database"
	"billing-backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// idempotencyStore persists idempotency records. The DB-backed implementation
// is used in production; tests substitute an in-memory fake.
type idempotencyStore interface {
	// FindOrCreate returns the record for rec.Key, creating a pending one if absent.
	FindOrCreate(rec *models.IdempotencyKey) (*models.IdempotencyKey, error)
	// Complete stores the final response for key.
	Complete(key string, status int, body []byte) error
}

type gormIdempotencyStore struct{}

func (gormIdempotencyStore) FindOrCreate(rec *models.IdempotencyKey) (*models.IdempotencyKey, error) {
	var existing models.IdempotencyKey
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("key = ?", rec.Key).First(&existing).Error; err != nil {
			if err != gorm.ErrRecordNotFound {
				return err
			}
			// Not found -> create "pending"
			if e2 := tx.Create(rec).Error; e2 != nil {
				// Could be a unique race: read again
				return tx.Where("key = ?", rec.Key).First(&existing).Error
			}
			existing = *rec
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &existing, nil
}

func (gormIdempotencyStore) Complete(key string, status int, body []byte) error {
	now := time.Now().UTC()
	blob := make([]byte, len(body))
	copy(blob, body)
	return database.DB.Model(&models.IdempotencyKey{}).
		Where("key = ?", key).
		Updates(map[string]any{
			"response_status": status,
			"response_body":   blob,
			"completed_at":    &now,
		}).Error
}

// Idempotency processes Idempotency-Key for mutating HTTP methods. A retried
// request with the same key replays the stored response instead of running
// the handler again — the HTTP-level counterpart to the gateway-level
// idempotency key, guarding double-submits of charge requests.
func Idempotency() fiber.Handler {
	return idempotencyWith(gormIdempotencyStore{})
}

func idempotencyWith(store idempotencyStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		method := strings.ToUpper(c.Method())
		if method != fiber.MethodPost && method != fiber.MethodPut && method != fiber.MethodPatch && method != fiber.MethodDelete {
			return c.Next()
		}

		key := strings.TrimSpace(c.Get("Idempotency-Key"))
		if key == "" {
			return c.Next()
		}
		if len(key) > 128 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Idempotency-Key too long"})
		}

		userID, _ := c.Locals("userID").(string)
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "auth context missing"})
		}

		path := c.OriginalURL() // includes query string
		body := c.Body()

		// Build deterministic request hash: method|path|body|user
		h := sha256.New()
		h.Write([]byte(method))
		h.Write([]byte{'\n'})
		h.Write([]byte(path))
		h.Write([]byte{'\n'})
		h.Write(body)
		h.Write([]byte{'\n'})
		h.Write([]byte(userID))
		reqHash := hex.EncodeToString(h.Sum(nil))

		existing, err := store.FindOrCreate(&models.IdempotencyKey{
			Key:            key,
			RequestHash:    reqHash,
			Method:         method,
			Path:           path,
			UserID:         userID,
			ResponseStatus: 0,
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "idempotency lookup failed")
		}

		if existing.RequestHash != reqHash {
			return fiber.NewError(fiber.StatusConflict, "Idempotency-Key reuse with different request")
		}
		if existing.ResponseStatus != 0 && existing.ResponseBody != nil {
			// Completed response stored — replay it; the handler must not run again.
			c.Status(existing.ResponseStatus)
			return c.Send(existing.ResponseBody)
		}

		// Pending/in-progress: run the handler once.
		if err := c.Next(); err != nil {
			return err
		}

		// Best-effort: a failed store must not break the successful response.
		_ = store.Complete(key, c.Response().StatusCode(), c.Response().Body())

		return nil
	}
}
