package content

import (
	"fmt"
	"strings"
)

const (
	DefaultPrimaryCtaText   = "Explore Services"
	DefaultPrimaryCtaURL    = "#services"
	DefaultSecondaryCtaText = "Request a Quote"
	DefaultSecondaryCtaURL  = "#contact"
)

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// ResolveLogoLight: logoLight → FallbackLogo.
func ResolveLogoLight(b Branding) string {
	return firstNonEmpty(b.LogoLight, FallbackLogo)
}

// ResolveLogoDark: logoDark → ResolveLogoLight.
func ResolveLogoDark(b Branding) string {
	return firstNonEmpty(b.LogoDark, ResolveLogoLight(b))
}

// ResolveFavicon: favicon → ResolveLogoLight.
func ResolveFavicon(b Branding) string {
	return firstNonEmpty(b.Favicon, ResolveLogoLight(b))
}

// ResolveOGImage: ogImage → ResolveFavicon.
func ResolveOGImage(b Branding) string {
	return firstNonEmpty(b.OGImage, ResolveFavicon(b))
}

// ResolvePrimaryCTA returns the primary hero link, defaulting to "Explore Services" → #services.
func ResolvePrimaryCTA(h Hero) CTA {
	return CTA{
		Text: firstNonEmpty(h.PrimaryCtaText, DefaultPrimaryCtaText),
		URL:  firstNonEmpty(h.PrimaryCtaURL, DefaultPrimaryCtaURL),
	}
}

// ResolveSecondaryCTA returns the secondary hero link, defaulting to "Request a Quote" → #contact.
func ResolveSecondaryCTA(h Hero) CTA {
	return CTA{
		Text: firstNonEmpty(h.SecondaryCtaText, DefaultSecondaryCtaText),
		URL:  firstNonEmpty(h.SecondaryCtaURL, DefaultSecondaryCtaURL),
	}
}

// ResolveProjectID はプロジェクトの表示用 ID を決める。
// id → slug → key → タイトルの slug → "project-{index+1}" の順に評価する。
func ResolveProjectID(p Project, index int) string {
	if id := firstNonEmpty(p.ID, p.Slug, p.Key); id != "" {
		return id
	}
	if slug := Slugify(p.Title); slug != "" {
		return slug
	}
	return fmt.Sprintf("project-%d", index+1)
}

// MetaField is one labelled project attribute.
type MetaField struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// ProjectMeta は値のあるメタ項目だけを固定順で返す。
func ProjectMeta(p Project) []MetaField {
	entries := []MetaField{
		{Key: "sector", Label: "Sector", Value: p.Sector},
		{Key: "location", Label: "Location", Value: p.Location},
		{Key: "completedOn", Label: "Completed", Value: p.CompletedOn},
		{Key: "capacity", Label: "Capacity", Value: p.Capacity},
		{Key: "scope", Label: "Scope", Value: p.Scope},
		{Key: "status", Label: "Status", Value: p.Status},
		{Key: "client", Label: "Client", Value: p.Client},
		{Key: "duration", Label: "Duration", Value: p.Duration},
	}
	result := make([]MetaField, 0, len(entries))
	for _, entry := range entries {
		entry.Value = strings.TrimSpace(entry.Value)
		if entry.Value == "" {
			continue
		}
		result = append(result, entry)
	}
	return result
}

// PhoneText returns the last listed phone number, which is the one used for call links.
func (c Company) PhoneText() string {
	if len(c.Phones) == 0 {
		return ""
	}
	return c.Phones[len(c.Phones)-1]
}

// PhonesText joins every phone number with ", ".
func (c Company) PhonesText() string {
	return strings.Join(c.Phones, ", ")
}

// PhoneHref は最後の電話番号から数字と + 以外を取り除いた tel: リンクを返す。番号が無ければ空文字。
func (c Company) PhoneHref() string {
	number := keepRunes(c.PhoneText(), func(r rune) bool {
		return r == '+' || (r >= '0' && r <= '9')
	})
	if number == "" {
		return ""
	}
	return "tel:" + number
}

// EmailHref returns a mailto: link, or "" without an email.
func (c Company) EmailHref() string {
	email := strings.TrimSpace(c.Email)
	if email == "" {
		return ""
	}
	return "mailto:" + email
}

// WhatsAppHref は数字のみを残した wa.me リンクを返す。
func (c Company) WhatsAppHref() string {
	digits := keepRunes(c.WhatsApp, func(r rune) bool {
		return r >= '0' && r <= '9'
	})
	if digits == "" {
		return ""
	}
	return "https://wa.me/" + digits
}

// SocialLink is a named profile link.
type SocialLink struct {
	Network string `json:"network"`
	Label   string `json:"label"`
	URL     string `json:"url"`
}

// SocialLinks returns non-empty profile links in a fixed order.
func (c Company) SocialLinks() []SocialLink {
	candidates := []SocialLink{
		{Network: "facebook", Label: "Facebook", URL: c.Social.Facebook},
		{Network: "x", Label: "X", URL: c.Social.X},
		{Network: "instagram", Label: "Instagram", URL: c.Social.Instagram},
		{Network: "linkedin", Label: "LinkedIn", URL: c.Social.LinkedIn},
	}
	links := make([]SocialLink, 0, len(candidates))
	for _, link := range candidates {
		link.URL = strings.TrimSpace(link.URL)
		if link.URL == "" {
			continue
		}
		links = append(links, link)
	}
	return links
}

func keepRunes(s string, keep func(rune) bool) string {
	var b strings.Builder
	for _, r := range s {
		if keep(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
