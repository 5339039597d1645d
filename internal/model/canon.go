package model

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"
)

// Section identifies a structural part of a draft
type Section string

const (
	SectionHook Section = "HOOK"
	SectionBody Section = "BODY"
	SectionCTA  Section = "CTA"
	SectionTone Section = "TONE"
	SectionFull Section = "FULL"
)

// Validate checks if the Section is valid
func (s Section) Validate() error {
	switch s {
	case SectionHook, SectionBody, SectionCTA, SectionTone, SectionFull:
		return nil
	default:
		return errors.New("invalid section")
	}
}

func (s Section) String() string {
	return string(s)
}

// AllSections returns the concrete sections in document order (FULL excluded)
func AllSections() []Section {
	return []Section{SectionHook, SectionBody, SectionCTA, SectionTone}
}

// BlockRole classifies the structure of a body block
type BlockRole string

const (
	RoleParagraph BlockRole = "paragraph"
	RoleList      BlockRole = "list"
	RoleQuote     BlockRole = "quote"
	RoleHeading   BlockRole = "heading"
	RoleOther     BlockRole = "other"
)

// ToneID is the classified voice of a draft
type ToneID string

const (
	ToneProfessional ToneID = "professional"
	ToneFormal       ToneID = "formal"
	ToneCasual       ToneID = "casual"
	ToneFriendly     ToneID = "friendly"
	ToneNeutral      ToneID = "neutral"
)

// LockedText is a section body with its do-not-change flag
type LockedText struct {
	Text   string `json:"text" yaml:"text"`
	Locked bool   `json:"locked" yaml:"locked"`
}

// ToneState is the tone label with its lock flag
type ToneState struct {
	ID     ToneID `json:"id" yaml:"id"`
	Locked bool   `json:"locked" yaml:"locked"`
}

// BodyBlock is one block of the body section.
//
// ID is derived from block content plus position and is used to correlate
// blocks across re-extractions for lock inheritance. It is a best-effort
// correlation key, not a content hash guarantee: after a large edit two
// different blocks can fail to correlate, in which case their lock state
// is simply not carried forward.
type BodyBlock struct {
	ID     string    `json:"id" yaml:"id"`
	Text   string    `json:"text" yaml:"text"`
	Role   BlockRole `json:"role" yaml:"role"`
	Locked bool      `json:"locked" yaml:"locked"`
}

// BodySection holds the ordered body blocks
type BodySection struct {
	Blocks []BodyBlock `json:"blocks" yaml:"blocks"`
}

// CanonMeta carries the identity and revision of a Canon
type CanonMeta struct {
	DraftID   string    `json:"draft_id" yaml:"draft_id"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
	Revision  int       `json:"revision" yaml:"revision"`
}

// Canon is the structural snapshot of a draft: Hook, Body blocks, CTA and
// Tone, each with a lock flag. Every mutation returns a new value
// (copy-on-write); a caller holding a prior Canon never observes a later
// mutation. Revision increments by exactly 1 on every accepted mutation.
type Canon struct {
	Hook LockedText  `json:"hook" yaml:"hook"`
	Body BodySection `json:"body" yaml:"body"`
	CTA  LockedText  `json:"cta" yaml:"cta"`
	Tone ToneState   `json:"tone" yaml:"tone"`
	Meta CanonMeta   `json:"meta" yaml:"meta"`
}

// Clone returns a deep copy of the Canon
func (c Canon) Clone() Canon {
	out := c
	out.Body.Blocks = make([]BodyBlock, len(c.Body.Blocks))
	copy(out.Body.Blocks, c.Body.Blocks)
	return out
}

// IsEmpty reports whether the Canon carries no content at all
func (c Canon) IsEmpty() bool {
	return strings.TrimSpace(c.Hook.Text) == "" &&
		strings.TrimSpace(c.CTA.Text) == "" &&
		len(c.Body.Blocks) == 0
}

// SectionLocked reports the lock state of a section. For BODY it is true
// when every block is locked.
func (c Canon) SectionLocked(s Section) bool {
	switch s {
	case SectionHook:
		return c.Hook.Locked
	case SectionCTA:
		return c.CTA.Locked
	case SectionTone:
		return c.Tone.Locked
	case SectionBody:
		if len(c.Body.Blocks) == 0 {
			return false
		}
		for _, b := range c.Body.Blocks {
			if !b.Locked {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// LockedSections returns the sections currently locked in the Canon,
// in stable document order
func (c Canon) LockedSections() []Section {
	var locked []Section
	for _, s := range AllSections() {
		if c.SectionLocked(s) {
			locked = append(locked, s)
		}
	}
	return locked
}

// BlockID derives the correlation key for a body block from its content
// prefix and position
func BlockID(text string, position int) string {
	norm := strings.ToLower(strings.TrimSpace(text))
	if len(norm) > 64 {
		norm = norm[:64]
	}
	sum := sha256.Sum256([]byte(norm))
	return hex.EncodeToString(sum[:6]) + "-" + strconv.Itoa(position)
}
