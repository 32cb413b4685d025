package whatsapp

import "time"

// InboundMessage is the transport-neutral shape of a message received from a
// customer. Sender is the raw address as the transport reports it
// ("51999888777@c.us", "whatsapp:+51999888777", ...).
type InboundMessage struct {
	ID        string
	Sender    string
	Text      string
	Media     *Media
	Timestamp time.Time
}

// Media references an attachment. Either URL/ID or Data is set, depending on
// the transport.
type Media struct {
	ID          string
	URL         string
	ContentType string
	Filename    string
	Data        []byte
}

// IsImage reports whether the attachment is an image.
func (m *Media) IsImage() bool {
	if m == nil {
		return false
	}
	return len(m.ContentType) >= 6 && m.ContentType[:6] == "image/"
}

// HasMedia reports whether the message carries an attachment.
func (msg *InboundMessage) HasMedia() bool {
	return msg.Media != nil
}
