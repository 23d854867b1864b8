package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// WebsiteIntent is the structured description extracted from the visitor's speech.
type WebsiteIntent struct {
	BusinessType string         `json:"businessType"`
	Sections     []string       `json:"sections"`
	Content      WebsiteContent `json:"content"`
}

// Validate checks the fields every intent must carry. Optional content is not inspected.
func (i *WebsiteIntent) Validate() error {
	if strings.TrimSpace(i.BusinessType) == "" {
		return errors.New("businessType is required")
	}
	if i.Sections == nil {
		return errors.New("sections must be an array")
	}
	if strings.TrimSpace(i.Content.BusinessName) == "" {
		return errors.New("content.businessName is required")
	}
	return nil
}

type ServiceOrProduct struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       string `json:"price,omitempty"`
}

// UnmarshalJSON accepts either an object or a bare name string.
func (s *ServiceOrProduct) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*s = ServiceOrProduct{Name: name}
		return nil
	}
	type plain ServiceOrProduct
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*s = ServiceOrProduct(p)
	return nil
}

type Testimonial struct {
	Text   string `json:"text"`
	Author string `json:"author,omitempty"`
}

type ContactInfo struct {
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
	Hours   string `json:"hours,omitempty"`
}

// WebsiteContent holds the page copy. Known fields are typed; any other key the
// model returns is kept verbatim in Extra, as is a known key whose value does not
// fit its typed field. Fields the visitor never mentioned are omitted when
// encoding, never zero-filled.
type WebsiteContent struct {
	BusinessName       string             `json:"businessName"`
	HeroHeadline       string             `json:"heroHeadline,omitempty"`
	HeroSubheadline    string             `json:"heroSubheadline,omitempty"`
	About              string             `json:"about,omitempty"`
	ServicesOrProducts []ServiceOrProduct `json:"servicesOrProducts,omitempty"`
	Features           []string           `json:"features,omitempty"`
	Testimonials       []Testimonial      `json:"testimonials,omitempty"`
	Contact            *ContactInfo       `json:"contact,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

type websiteContentFields WebsiteContent

// fields maps each known key to the typed field it decodes into.
func (c *WebsiteContent) fields() map[string]interface{} {
	return map[string]interface{}{
		"businessName":       &c.BusinessName,
		"heroHeadline":       &c.HeroHeadline,
		"heroSubheadline":    &c.HeroSubheadline,
		"about":              &c.About,
		"servicesOrProducts": &c.ServicesOrProducts,
		"features":           &c.Features,
		"testimonials":       &c.Testimonials,
		"contact":            &c.Contact,
	}
}

func (c *WebsiteContent) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return errors.New("content must be an object")
	}

	*c = WebsiteContent{}
	fields := c.fields()
	for key, value := range raw {
		if bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
			continue
		}
		if target, known := fields[key]; known {
			if err := json.Unmarshal(value, target); err == nil {
				continue
			}
			c.resetField(key)
		}
		if c.Extra == nil {
			c.Extra = make(map[string]json.RawMessage, len(raw))
		}
		c.Extra[key] = value
	}
	return nil
}

// resetField clears a typed field left partly filled by a failed decode.
func (c *WebsiteContent) resetField(key string) {
	switch key {
	case "businessName":
		c.BusinessName = ""
	case "heroHeadline":
		c.HeroHeadline = ""
	case "heroSubheadline":
		c.HeroSubheadline = ""
	case "about":
		c.About = ""
	case "servicesOrProducts":
		c.ServicesOrProducts = nil
	case "features":
		c.Features = nil
	case "testimonials":
		c.Testimonials = nil
	case "contact":
		c.Contact = nil
	}
}

// MarshalJSON writes the typed fields and then Extra. An Extra entry replaces a
// typed field of the same key, so a value that did not fit is written back as received.
func (c WebsiteContent) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(websiteContentFields(c))
	if err != nil {
		return nil, err
	}
	if len(c.Extra) == 0 {
		return known, nil
	}

	merged := make(map[string]json.RawMessage, len(c.Extra)+8)
	if err := json.Unmarshal(known, &merged); err != nil {
		return nil, err
	}
	for key, value := range c.Extra {
		merged[key] = value
	}
	return json.Marshal(merged)
}
