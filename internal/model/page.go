// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// Fixed page slugs seeded at startup.
const (
	PageHome    = "home"
	PageAbout   = "about"
	PageContact = "contact"
)

// ErrInvalidPageContent is returned when content does not match the shape of its page.
var ErrInvalidPageContent = errors.New("invalid page content")

// PageContent is the document stored for a page. Each fixed slug has its own
// shape; any other slug carries RawContent.
type PageContent interface {
	pageSlug() string
}

// HomeContent is the document behind the "home" page.
type HomeContent struct {
	Hero     HomeHero     `json:"hero"`
	Snapshot HomeSnapshot `json:"snapshot"`
	Work     HomeWork     `json:"work"`
}

// HomeHero is the top banner of the home page.
type HomeHero struct {
	Availability string `json:"availability"`
	Headline     string `json:"headline"`
	Skills       string `json:"skills"`
}

// HomeSnapshot is the profile card of the home page.
type HomeSnapshot struct {
	Role     string  `json:"role"`
	Location string  `json:"location"`
	Focus    string  `json:"focus"`
	Socials  Socials `json:"socials"`
}

// Socials holds profile links.
type Socials struct {
	Instagram string `json:"instagram"`
	LinkedIn  string `json:"linkedin"`
	Email     string `json:"email"`
}

// HomeWork is the selected-work block. SelectedProjects references Project.ID
// informally; nothing enforces the reference.
type HomeWork struct {
	Title            string  `json:"title"`
	Subtitle         string  `json:"subtitle"`
	SelectedProjects []int64 `json:"selectedProjects"`
}

// AboutContent is the document behind the "about" page.
type AboutContent struct {
	Summary     string       `json:"summary"`
	Experiences []Experience `json:"experiences"`
	Skills      SkillSet     `json:"skills"`
	Educations  []Education  `json:"educations"`
}

// Experience is one position in the about page.
type Experience struct {
	ID      int64  `json:"id"`
	Role    string `json:"role"`
	Company string `json:"company"`
	Period  string `json:"period"`
	Points  string `json:"points"`
}

// SkillSet groups skills in the about page.
type SkillSet struct {
	Technical []string `json:"technical"`
	Soft      []string `json:"soft"`
	Tools     []string `json:"tools"`
}

// Education is one degree in the about page.
type Education struct {
	ID         int64  `json:"id"`
	Degree     string `json:"degree"`
	University string `json:"university"`
}

// ContactContent is the plain-text body of the "contact" page.
type ContactContent string

// RawContent is an untyped JSON document for pages outside the fixed set.
type RawContent json.RawMessage

// MarshalJSON returns the raw document, or null when empty.
func (c RawContent) MarshalJSON() ([]byte, error) {
	if len(c) == 0 {
		return []byte("null"), nil
	}
	return c, nil
}

func (HomeContent) pageSlug() string    { return PageHome }
func (AboutContent) pageSlug() string   { return PageAbout }
func (ContactContent) pageSlug() string { return PageContact }
func (RawContent) pageSlug() string     { return "" }

// Fields every submitted home and about document must carry. Arrays listed
// here must not contain null elements.
var (
	homeRequiredPaths = []string{
		"hero.availability", "hero.headline", "hero.skills",
		"snapshot.role", "snapshot.location", "snapshot.focus",
		"snapshot.socials.instagram", "snapshot.socials.linkedin", "snapshot.socials.email",
		"work.title", "work.subtitle", "work.selectedProjects",
	}
	aboutRequiredPaths = []string{
		"summary", "experiences",
		"skills.technical", "skills.soft", "skills.tools",
		"educations",
	}
)

// ParsePageContent decodes submitted JSON into the variant for slug.
// Unknown fields are rejected for the fixed pages, and every field of the
// home and about documents is required.
func ParsePageContent(slug string, data []byte) (PageContent, error) {
	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: not valid JSON", ErrInvalidPageContent)
	}
	if gjson.ParseBytes(data).Type == gjson.Null {
		return nil, fmt.Errorf("%w: content is required", ErrInvalidPageContent)
	}

	switch slug {
	case PageHome:
		var c HomeContent
		if err := decodeStrict(data, &c, homeRequiredPaths); err != nil {
			return nil, err
		}
		return c, nil
	case PageAbout:
		var c AboutContent
		if err := decodeStrict(data, &c, aboutRequiredPaths); err != nil {
			return nil, err
		}
		return c, nil
	case PageContact:
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("%w: contact content must be a string", ErrInvalidPageContent)
		}
		return ContactContent(s), nil
	default:
		return RawContent(bytes.Clone(data)), nil
	}
}

// DecodeStoredPageContent decodes the stored text for slug. Decoding is lenient:
// extra fields in stored documents are ignored, and text that is not JSON is
// returned as a string document.
func DecodeStoredPageContent(slug, stored string) (PageContent, error) {
	switch slug {
	case PageHome:
		var c HomeContent
		if err := json.Unmarshal([]byte(stored), &c); err != nil {
			return nil, fmt.Errorf("decoding home content: %w", err)
		}
		return c, nil
	case PageAbout:
		var c AboutContent
		if err := json.Unmarshal([]byte(stored), &c); err != nil {
			return nil, fmt.Errorf("decoding about content: %w", err)
		}
		return c, nil
	case PageContact:
		return ContactContent(stored), nil
	default:
		if json.Valid([]byte(stored)) {
			return RawContent(stored), nil
		}
		quoted, err := json.Marshal(stored)
		if err != nil {
			return nil, err
		}
		return RawContent(quoted), nil
	}
}

// EncodePageContent returns the text stored for content. Contact content is
// stored as plain text; every other variant as JSON.
func EncodePageContent(content PageContent) (string, error) {
	switch c := content.(type) {
	case ContactContent:
		return string(c), nil
	case RawContent:
		return string(c), nil
	default:
		data, err := json.Marshal(c)
		if err != nil {
			return "", fmt.Errorf("encoding page content: %w", err)
		}
		return string(data), nil
	}
}

func decodeStrict(data []byte, v any, required []string) error {
	if !gjson.ParseBytes(data).IsObject() {
		return fmt.Errorf("%w: content must be an object", ErrInvalidPageContent)
	}
	for _, path := range required {
		field := gjson.GetBytes(data, path)
		if !field.Exists() || field.Type == gjson.Null {
			return fmt.Errorf("%w: %s is required", ErrInvalidPageContent, path)
		}
		if field.IsArray() {
			for _, el := range field.Array() {
				if el.Type == gjson.Null {
					return fmt.Errorf("%w: %s must not contain null", ErrInvalidPageContent, path)
				}
			}
		}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPageContent, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data", ErrInvalidPageContent)
	}
	return nil
}

// Page is a fixed-slug content page.
type Page struct {
	ID      int64       `json:"id"`
	Slug    string      `json:"slug"`
	Title   string      `json:"title"`
	Content PageContent `json:"content"`
}

// PageSummary is a page without its content, as listed for the admin.
type PageSummary struct {
	ID    int64  `json:"id"`
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

// DefaultPages returns the documents seeded for the fixed pages.
func DefaultPages() []Page {
	return []Page{
		{
			Slug:  PageHome,
			Title: "Homepage Content",
			Content: HomeContent{
				Hero: HomeHero{
					Availability: "Open to collaborations",
					Headline:     "Marketing strategist...",
					Skills:       "B2B Marketing, UX Writing",
				},
				Snapshot: HomeSnapshot{
					Role:     "Creative technologist",
					Location: "Tehran, Iran",
					Focus:    "Product Design",
					Socials:  Socials{Instagram: "#", LinkedIn: "#", Email: "#"},
				},
				Work: HomeWork{
					Title:            "Selected Work",
					Subtitle:         "Key highlights...",
					SelectedProjects: []int64{},
				},
			},
		},
		{
			Slug:  PageAbout,
			Title: "About Me",
			Content: AboutContent{
				Summary: "Experienced UI/UX Designer...",
				Experiences: []Experience{
					{ID: 1, Role: "Senior UI/UX Designer...", Company: "Ronix Tools", Period: "2021 – Present", Points: "Spearheaded..."},
				},
				Skills: SkillSet{
					Technical: []string{"Design Systems"},
					Soft:      []string{"Empathy"},
					Tools:     []string{"Figma"},
				},
				Educations: []Education{
					{ID: 1, Degree: "Bachelor of Arts...", University: "Islamic Azad University..."},
				},
			},
		},
		{
			Slug:    PageContact,
			Title:   "Contact Us",
			Content: ContactContent("This is the default contact page content."),
		},
	}
}
