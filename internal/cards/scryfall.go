package cards

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultScryfallBase = "https://api.scryfall.com"

// ScryfallClient looks cards up over HTTP. The timeout is short: a failed
// resolution degrades to a placeholder, it never stalls the tailing loop.
type ScryfallClient struct {
	base   string
	client *http.Client
}

// NewScryfallClient creates a client against the public API. An empty base
// uses the real endpoint; tests point it at a local server.
func NewScryfallClient(base string) *ScryfallClient {
	if base == "" {
		base = defaultScryfallBase
	}
	return &ScryfallClient{
		base:   strings.TrimRight(base, "/"),
		client: &http.Client{Timeout: 3 * time.Second},
	}
}

type scryfallCard struct {
	Name          string            `json:"name"`
	ManaCost      string            `json:"mana_cost"`
	Colors        []string          `json:"colors"`
	ColorIdentity []string          `json:"color_identity"`
	TypeLine      string            `json:"type_line"`
	ScryfallURI   string            `json:"scryfall_uri"`
	ImageURIs     map[string]string `json:"image_uris"`
	CardFaces     []struct {
		ImageURIs map[string]string `json:"image_uris"`
	} `json:"card_faces"`
}

// ByArenaID fetches a card by Arena GRPID.
func (s *ScryfallClient) ByArenaID(id int) (Card, error) {
	return s.fetch(fmt.Sprintf("%s/cards/arena/%d", s.base, id), id)
}

// ByName fetches a card by fuzzy name match.
func (s *ScryfallClient) ByName(id int, name string) (Card, error) {
	return s.fetch(fmt.Sprintf("%s/cards/named?fuzzy=%s", s.base, url.QueryEscape(name)), id)
}

func (s *ScryfallClient) fetch(u string, id int) (Card, error) {
	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return Card{}, err
	}
	req.Header.Set("User-Agent", "scry-daemon/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return Card{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return Card{ID: id, Name: fmt.Sprintf("Unknown Card (%d)", id), NotFound: true}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return Card{}, fmt.Errorf("scryfall status %d", resp.StatusCode)
	}

	var sc scryfallCard
	if err := json.NewDecoder(resp.Body).Decode(&sc); err != nil {
		return Card{}, fmt.Errorf("decode scryfall response: %w", err)
	}

	imageURL := pickImage(sc.ImageURIs)
	if imageURL == "" && len(sc.CardFaces) > 0 {
		imageURL = pickImage(sc.CardFaces[0].ImageURIs)
	}

	isLegendary := strings.Contains(sc.TypeLine, "Legendary")
	return Card{
		ID:            id,
		Name:          sc.Name,
		ManaCost:      sc.ManaCost,
		Colors:        sc.Colors,
		ColorIdentity: sc.ColorIdentity,
		TypeLine:      sc.TypeLine,
		ImageURL:      imageURL,
		ScryfallURI:   sc.ScryfallURI,
		IsLegendary:   isLegendary,
		IsCommander:   isLegendary && (strings.Contains(sc.TypeLine, "Creature") || strings.Contains(sc.TypeLine, "Planeswalker")),
	}, nil
}

func pickImage(uris map[string]string) string {
	if uris == nil {
		return ""
	}
	if u := uris["large"]; u != "" {
		return u
	}
	return uris["normal"]
}
