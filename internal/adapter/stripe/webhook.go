package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Webhook event types acted upon by the reconciler. Anything else is
// acknowledged and ignored.
const (
	EventCheckoutSessionCompleted = "checkout.session.completed"
	EventCheckoutSessionExpired   = "checkout.session.expired"
	EventPaymentIntentSucceeded   = "payment_intent.succeeded"
	EventPaymentIntentFailed      = "payment_intent.payment_failed"
)

var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrMalformedPayload = errors.New("malformed webhook payload")
)

// Event is a verified provider notification. Data.Object is kept raw and
// decoded per event type by the reconciler.
type Event struct {
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

// SessionObject is the data.object payload of checkout.session.* events.
type SessionObject struct {
	ID            string `json:"id"`
	PaymentIntent string `json:"payment_intent"`
}

// IntentObject is the data.object payload of payment_intent.* events.
type IntentObject struct {
	ID string `json:"id"`
}

// Session decodes the event object as a checkout session.
func (e *Event) Session() (*SessionObject, error) {
	var obj SessionObject
	if err := json.Unmarshal(e.Data.Object, &obj); err != nil || obj.ID == "" {
		return nil, ErrMalformedPayload
	}
	return &obj, nil
}

// Intent decodes the event object as a payment intent.
func (e *Event) Intent() (*IntentObject, error) {
	var obj IntentObject
	if err := json.Unmarshal(e.Data.Object, &obj); err != nil || obj.ID == "" {
		return nil, ErrMalformedPayload
	}
	return &obj, nil
}

// WebhookVerifier checks provider signatures over raw webhook payloads.
// Verification happens before any semantic parsing so forged payloads never
// reach state transitions.
type WebhookVerifier struct {
	secret    []byte
	tolerance time.Duration
	now       func() time.Time
}

// NewWebhookVerifier builds a verifier with the endpoint secret. A tolerance
// of zero defaults to five minutes.
func NewWebhookVerifier(secret string, tolerance time.Duration) *WebhookVerifier {
	if tolerance <= 0 {
		tolerance = 5 * time.Minute
	}
	return &WebhookVerifier{secret: []byte(secret), tolerance: tolerance, now: time.Now}
}

// VerifyEvent validates the signature header against the raw payload and then
// parses the event envelope.
func (v *WebhookVerifier) VerifyEvent(payload []byte, sigHeader string) (*Event, error) {
	timestamp, signatures, err := parseSignatureHeader(sigHeader)
	if err != nil {
		return nil, err
	}

	if v.now().Sub(time.Unix(timestamp, 0)) > v.tolerance {
		return nil, ErrInvalidSignature
	}

	expected := v.sign(timestamp, payload)
	matched := false
	for _, sig := range signatures {
		if hmac.Equal(expected, sig) {
			matched = true
			break
		}
	}
	if !matched {
		return nil, ErrInvalidSignature
	}

	var event Event
	if err := json.Unmarshal(payload, &event); err != nil || event.Type == "" {
		return nil, ErrMalformedPayload
	}
	return &event, nil
}

func (v *WebhookVerifier) sign(timestamp int64, payload []byte) []byte {
	mac := hmac.New(sha256.New, v.secret)
	fmt.Fprintf(mac, "%d.", timestamp)
	mac.Write(payload)
	return mac.Sum(nil)
}

// parseSignatureHeader splits "t=<unix>,v1=<hex>[,v1=<hex>...]".
func parseSignatureHeader(header string) (int64, [][]byte, error) {
	if header == "" {
		return 0, nil, ErrInvalidSignature
	}

	var timestamp int64 = -1
	var signatures [][]byte
	for _, part := range strings.Split(header, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch key {
		case "t":
			ts, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return 0, nil, ErrInvalidSignature
			}
			timestamp = ts
		case "v1":
			sig, err := hex.DecodeString(value)
			if err != nil {
				continue
			}
			signatures = append(signatures, sig)
		}
	}

	if timestamp < 0 || len(signatures) == 0 {
		return 0, nil, ErrInvalidSignature
	}
	return timestamp, signatures, nil
}
