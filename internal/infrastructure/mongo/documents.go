package mongo

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sngm3741/nasam-site/internal/content"
)

// imageDocument は文字列 URL と {url, alt, caption} の両方の保存形式を受け付ける。
type imageDocument struct {
	URL     string `bson:"url"`
	Alt     string `bson:"alt,omitempty"`
	Caption string `bson:"caption,omitempty"`
}

func (d *imageDocument) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.String:
		*d = imageDocument{URL: raw.StringValue()}
		return nil
	case bsontype.EmbeddedDocument:
		type imageAlias imageDocument
		var alias imageAlias
		if err := raw.Unmarshal(&alias); err != nil {
			return err
		}
		*d = imageDocument(alias)
		return nil
	case bsontype.Null, bsontype.Undefined:
		*d = imageDocument{}
		return nil
	}
	return fmt.Errorf("image: unsupported BSON type %s", t)
}

func (d imageDocument) toContent() content.Image {
	return content.Image{URL: d.URL, Alt: d.Alt, Caption: d.Caption}
}

func toImages(docs []imageDocument) []content.Image {
	if docs == nil {
		return nil
	}
	images := make([]content.Image, 0, len(docs))
	for _, d := range docs {
		images = append(images, d.toContent())
	}
	return images
}

func fromImages(images []content.Image) bson.A {
	values := bson.A{}
	for _, img := range images {
		values = append(values, imageValue(img))
	}
	return values
}

func imageValue(img content.Image) bson.M {
	value := bson.M{"url": img.URL}
	if img.Alt != "" {
		value["alt"] = img.Alt
	}
	if img.Caption != "" {
		value["caption"] = img.Caption
	}
	return value
}

// looseNumber decodes numbers stored as double, int or numeric string. Anything else is absent.
type looseNumber struct {
	Value *float64
}

func (n *looseNumber) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	var v float64
	switch t {
	case bsontype.Double:
		v = raw.Double()
	case bsontype.Int32:
		v = float64(raw.Int32())
	case bsontype.Int64:
		v = float64(raw.Int64())
	case bsontype.String:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(raw.StringValue()), 64)
		if err != nil {
			n.Value = nil
			return nil
		}
		v = parsed
	default:
		n.Value = nil
		return nil
	}
	n.Value = &v
	return nil
}

func (n looseNumber) orZero() float64 {
	if n.Value == nil {
		return 0
	}
	return *n.Value
}

// lineList は配列でも改行・カンマ区切りの文字列でも保存されうるリスト。
type lineList []string

func (l *lineList) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Array:
		var items []string
		if err := raw.Unmarshal(&items); err != nil {
			return err
		}
		*l = lineList(content.ParseLines(strings.Join(items, "\n")))
	case bsontype.String:
		*l = lineList(content.ParseLines(raw.StringValue()))
	default:
		*l = nil
	}
	return nil
}

// documentID converts an _id stored as ObjectID or string to its string form.
func documentID(raw bson.RawValue) string {
	switch raw.Type {
	case bsontype.ObjectID:
		return raw.ObjectID().Hex()
	case bsontype.String:
		return raw.StringValue()
	}
	return ""
}

// idFilter は ObjectID と文字列 ID の両方で保存されたドキュメントに一致するフィルタを返す。
func idFilter(id string) bson.M {
	id = strings.TrimSpace(id)
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": bson.M{"$in": bson.A{oid, id}}}
	}
	return bson.M{"_id": id}
}

type socialDocument struct {
	Facebook  string `bson:"facebook,omitempty"`
	Instagram string `bson:"instagram,omitempty"`
	LinkedIn  string `bson:"linkedin,omitempty"`
	X         string `bson:"x,omitempty"`
}

// CompanyDocument is siteContent/company.
type CompanyDocument struct {
	Name      string         `bson:"name"`
	Tagline   string         `bson:"tagline"`
	Intro     string         `bson:"intro"`
	Email     string         `bson:"email"`
	WhatsApp  string         `bson:"whatsapp"`
	Phones    lineList       `bson:"phones"`
	Locations lineList       `bson:"locations"`
	Social    socialDocument `bson:"social"`
}

func (d CompanyDocument) toContent() content.Company {
	return content.Company{
		Name:      d.Name,
		Tagline:   d.Tagline,
		Intro:     d.Intro,
		Email:     d.Email,
		WhatsApp:  d.WhatsApp,
		Phones:    []string(d.Phones),
		Locations: []string(d.Locations),
		Social: content.Social{
			Facebook:  d.Social.Facebook,
			Instagram: d.Social.Instagram,
			LinkedIn:  d.Social.LinkedIn,
			X:         d.Social.X,
		},
	}
}

func companyFields(c content.Company) bson.M {
	social := bson.M{}
	for key, value := range map[string]string{
		"facebook":  c.Social.Facebook,
		"instagram": c.Social.Instagram,
		"linkedin":  c.Social.LinkedIn,
		"x":         c.Social.X,
	} {
		if value != "" {
			social[key] = value
		}
	}
	return bson.M{
		"name":      c.Name,
		"tagline":   c.Tagline,
		"intro":     c.Intro,
		"email":     c.Email,
		"whatsapp":  c.WhatsApp,
		"phones":    nonNilStrings(c.Phones),
		"locations": nonNilStrings(c.Locations),
		"social":    social,
	}
}

// BrandingDocument is siteContent/branding.
type BrandingDocument struct {
	LogoLight string `bson:"logoLight"`
	LogoDark  string `bson:"logoDark"`
	Favicon   string `bson:"favicon"`
	OGImage   string `bson:"ogImage"`
}

func (d BrandingDocument) toContent() content.Branding {
	return content.Branding(d)
}

func brandingFields(b content.Branding) bson.M {
	return bson.M{
		"logoLight": b.LogoLight,
		"logoDark":  b.LogoDark,
		"favicon":   b.Favicon,
		"ogImage":   b.OGImage,
	}
}

// HeroDocument is siteContent/hero.
type HeroDocument struct {
	Badge            string `bson:"badge"`
	Title            string `bson:"title"`
	Accent           string `bson:"accent"`
	Lead             string `bson:"lead"`
	PrimaryCtaText   string `bson:"primaryCtaText"`
	PrimaryCtaURL    string `bson:"primaryCtaUrl"`
	SecondaryCtaText string `bson:"secondaryCtaText"`
	SecondaryCtaURL  string `bson:"secondaryCtaUrl"`
}

func (d HeroDocument) toContent() content.Hero {
	return content.Hero(d)
}

func heroFields(h content.Hero) bson.M {
	return bson.M{
		"badge":            h.Badge,
		"title":            h.Title,
		"accent":           h.Accent,
		"lead":             h.Lead,
		"primaryCtaText":   h.PrimaryCtaText,
		"primaryCtaUrl":    h.PrimaryCtaURL,
		"secondaryCtaText": h.SecondaryCtaText,
		"secondaryCtaUrl":  h.SecondaryCtaURL,
	}
}

// HeroPhotoDocument is one heroPhotos document.
type HeroPhotoDocument struct {
	ID      bson.RawValue `bson:"_id"`
	URL     string        `bson:"url"`
	Alt     string        `bson:"alt,omitempty"`
	Title   string        `bson:"title,omitempty"`
	Caption string        `bson:"caption,omitempty"`
	Order   looseNumber   `bson:"order"`
}

func (d HeroPhotoDocument) toContent() content.HeroPhoto {
	return content.HeroPhoto{
		ID:      documentID(d.ID),
		URL:     d.URL,
		Alt:     d.Alt,
		Title:   d.Title,
		Caption: d.Caption,
		Order:   d.Order.orZero(),
	}
}

func heroPhotoFields(p content.HeroPhoto) bson.M {
	return bson.M{
		"url":     p.URL,
		"alt":     p.Alt,
		"title":   p.Title,
		"caption": p.Caption,
		"order":   p.Order,
	}
}

// CategoryDocument is one serviceCategories document.
type CategoryDocument struct {
	ID          bson.RawValue   `bson:"_id"`
	Name        string          `bson:"name"`
	Slug        string          `bson:"slug,omitempty"`
	Description string          `bson:"description,omitempty"`
	Images      []imageDocument `bson:"images,omitempty"`
}

func (d CategoryDocument) toContent() content.Category {
	return content.Category{
		ID:          documentID(d.ID),
		Name:        d.Name,
		Slug:        d.Slug,
		Description: d.Description,
		Images:      toImages(d.Images),
	}
}

func categoryFields(c content.Category) bson.M {
	return bson.M{
		"name":        c.Name,
		"slug":        c.Slug,
		"description": c.Description,
		"images":      fromImages(c.Images),
	}
}

type ctaDocument struct {
	Text string `bson:"text,omitempty"`
	URL  string `bson:"url,omitempty"`
}

// ProjectDocument is one projects document. Images may live under image, images or gallery.
type ProjectDocument struct {
	ID              bson.RawValue   `bson:"_id"`
	Slug            string          `bson:"slug,omitempty"`
	Key             string          `bson:"key,omitempty"`
	Title           string          `bson:"title"`
	Description     string          `bson:"description,omitempty"`
	Image           *imageDocument  `bson:"image,omitempty"`
	Images          []imageDocument `bson:"images,omitempty"`
	Gallery         []imageDocument `bson:"gallery,omitempty"`
	Order           looseNumber     `bson:"order"`
	LongDescription string          `bson:"longDescription,omitempty"`
	Sector          string          `bson:"sector,omitempty"`
	Location        string          `bson:"location,omitempty"`
	CompletedOn     string          `bson:"completedOn,omitempty"`
	Capacity        string          `bson:"capacity,omitempty"`
	Scope           string          `bson:"scope,omitempty"`
	Status          string          `bson:"status,omitempty"`
	Client          string          `bson:"client,omitempty"`
	Duration        string          `bson:"duration,omitempty"`
	Highlights      lineList        `bson:"highlights,omitempty"`
	CTA             *ctaDocument    `bson:"cta,omitempty"`
}

func (d ProjectDocument) toContent() content.Project {
	p := content.Project{
		ID:              documentID(d.ID),
		Slug:            d.Slug,
		Key:             d.Key,
		Title:           d.Title,
		Description:     d.Description,
		Images:          toImages(d.Images),
		Gallery:         toImages(d.Gallery),
		Order:           d.Order.orZero(),
		LongDescription: d.LongDescription,
		Sector:          d.Sector,
		Location:        d.Location,
		CompletedOn:     d.CompletedOn,
		Capacity:        d.Capacity,
		Scope:           d.Scope,
		Status:          d.Status,
		Client:          d.Client,
		Duration:        d.Duration,
		Highlights:      []string(d.Highlights),
	}
	if d.Image != nil && d.Image.URL != "" {
		img := d.Image.toContent()
		p.Image = &img
	}
	if d.CTA != nil {
		p.CTA = &content.CTA{Text: d.CTA.Text, URL: d.CTA.URL}
	}
	return p
}

func projectFields(p content.Project) bson.M {
	fields := bson.M{
		"slug":            p.Slug,
		"key":             p.Key,
		"title":           p.Title,
		"description":     p.Description,
		"images":          fromImages(p.Images),
		"gallery":         fromImages(p.Gallery),
		"order":           p.Order,
		"longDescription": p.LongDescription,
		"sector":          p.Sector,
		"location":        p.Location,
		"completedOn":     p.CompletedOn,
		"capacity":        p.Capacity,
		"scope":           p.Scope,
		"status":          p.Status,
		"client":          p.Client,
		"duration":        p.Duration,
		"highlights":      nonNilStrings(p.Highlights),
		"image":           nil,
		"cta":             nil,
	}
	if p.Image != nil {
		fields["image"] = imageValue(*p.Image)
	}
	if p.CTA != nil {
		fields["cta"] = bson.M{"text": p.CTA.Text, "url": p.CTA.URL}
	}
	return fields
}

// ReviewDocument is one reviews document. is_approved is canonical; approved is the legacy field.
type ReviewDocument struct {
	ID             bson.RawValue `bson:"_id"`
	Name           string        `bson:"name"`
	Category       string        `bson:"category,omitempty"`
	Comment        string        `bson:"comment,omitempty"`
	Rating         looseNumber   `bson:"rating"`
	IsApproved     *bool         `bson:"is_approved,omitempty"`
	LegacyApproved *bool         `bson:"approved,omitempty"`
	CreatedAt      *time.Time    `bson:"createdAt,omitempty"`
}

func (d ReviewDocument) toContent() content.Review {
	approved := d.IsApproved
	if approved == nil {
		approved = d.LegacyApproved
	}
	return content.Review{
		ID:        documentID(d.ID),
		Name:      d.Name,
		Category:  d.Category,
		Comment:   d.Comment,
		Rating:    d.Rating.Value,
		Approved:  approved,
		CreatedAt: d.CreatedAt,
	}
}

func reviewFields(r content.Review) bson.M {
	fields := bson.M{
		"name":     r.Name,
		"category": r.Category,
		"comment":  r.Comment,
	}
	if r.Rating != nil {
		fields["rating"] = *r.Rating
	}
	if r.Approved != nil {
		fields["is_approved"] = *r.Approved
	}
	if r.CreatedAt != nil {
		fields["createdAt"] = r.CreatedAt.UTC()
	}
	return fields
}

// approvedFilter は is_approved を優先し、存在しない場合のみ旧フィールド approved を参照する。
func approvedFilter() bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"is_approved": true},
		bson.M{"is_approved": bson.M{"$exists": false}, "approved": true},
	}}
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
