package feishu

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/openclaw/openclaw/internal/channels"
)

// maxWebhookBodyBytes bounds how much of a request body we'll read, so a
// misbehaving or malicious sender can't exhaust memory on the webhook path.
const maxWebhookBodyBytes = 1 << 20 // 1MiB

// NewWebhookHandler builds the HTTP handler for Feishu's webhook delivery
// mode: it validates the request, decrypts the body if an encrypt key is
// configured, answers the one-time URL verification challenge, and hands
// decoded message events to callback.
func NewWebhookHandler(verificationToken, encryptKey string, callback func(event *MessageEvent)) http.HandlerFunc {
	limiter := channels.NewWebhookRateLimiter()

	return func(w http.ResponseWriter, r *http.Request) {
		if !applyBasicWebhookGuards(w, r, limiter) {
			return
		}

		body, err := readWebhookBody(r)
		if err != nil {
			slog.Warn("feishu webhook: body read failed", "error", err)
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		if encryptKey != "" {
			body, err = decryptWebhookBody(body, encryptKey)
			if err != nil {
				slog.Warn("feishu webhook: decrypt failed", "error", err)
				http.Error(w, "bad request", http.StatusBadRequest)
				return
			}
		}

		// URL verification handshake: Feishu sends this once when the event
		// subscription is (re)configured, and expects the challenge echoed back.
		var challenge webhookChallenge
		if err := json.Unmarshal(body, &challenge); err == nil && challenge.Type == "url_verification" {
			writeJSONResponse(w, http.StatusOK, map[string]string{"challenge": challenge.Challenge})
			return
		}

		var event MessageEvent
		if err := json.Unmarshal(body, &event); err != nil {
			slog.Warn("feishu webhook: event decode failed", "error", err)
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		if verificationToken != "" && event.Header.Token != "" && event.Header.Token != verificationToken {
			slog.Warn("feishu webhook: verification token mismatch")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		// Ack immediately; Feishu retries on any non-2xx or slow response, and
		// message handling (sender lookup, agent dispatch) can take a while.
		w.WriteHeader(http.StatusOK)

		if event.Header.EventType == "im.message.receive_v1" {
			callback(&event)
		}
	}
}

// applyBasicWebhookGuards enforces method + rate-limit checks shared by every
// webhook request, independent of event type or encryption.
func applyBasicWebhookGuards(w http.ResponseWriter, r *http.Request, limiter *channels.WebhookRateLimiter) bool {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}

	key := r.RemoteAddr
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		key = fwd
	}
	if !limiter.Allow(key) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
		return false
	}

	return true
}

// readWebhookBody reads the request body up to maxWebhookBodyBytes.
func readWebhookBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(body) > maxWebhookBodyBytes {
		return nil, fmt.Errorf("body exceeds %d bytes", maxWebhookBodyBytes)
	}
	return body, nil
}

// decryptWebhookBody reverses Feishu's AES-256-CBC event encryption: the
// wire payload is {"encrypt": base64(iv || ciphertext)}, with the key being
// the SHA-256 digest of the app's configured encrypt key.
func decryptWebhookBody(body []byte, encryptKey string) ([]byte, error) {
	var env encryptedEnvelope
	if err := json.Unmarshal(body, &env); err != nil || env.Encrypt == "" {
		return nil, fmt.Errorf("missing encrypt field")
	}

	raw, err := base64.StdEncoding.DecodeString(env.Encrypt)
	if err != nil {
		return nil, fmt.Errorf("base64 decode: %w", err)
	}

	key := sha256.Sum256([]byte(encryptKey))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}

	if len(raw) < aes.BlockSize || len(raw)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("invalid ciphertext length")
	}
	iv, ciphertext := raw[:aes.BlockSize], raw[aes.BlockSize:]

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	plaintext = pkcs7Unpad(plaintext)
	return plaintext, nil
}

func pkcs7Unpad(data []byte) []byte {
	if len(data) == 0 {
		return data
	}
	padLen := int(data[len(data)-1])
	if padLen <= 0 || padLen > len(data) {
		return data
	}
	return data[:len(data)-padLen]
}

func writeJSONResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
