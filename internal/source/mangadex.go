package source

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"mugen/internal/domain"
	"mugen/internal/sharedhttp"

	"github.com/google/uuid"
)

const (
	mangadexURL         = "https://api.mangadex.org"
	mangadexUploadsURL  = "https://uploads.mangadex.org"
	seasonalListURL     = "https://antsylich.github.io/mangadex-seasonal/seasonal-list.json"
	mangadexLimit       = 500
	mangadexIDsPerQuery = 100
)

var (
	feedContentRatings   = []string{"safe", "suggestive", "erotica", "pornographic"}
	searchContentRatings = []string{"safe", "suggestive", "erotica"}
	feedOrderKeys        = []string{"createdAt", "updatedAt", "publishAt", "readableAt", "volume", "chapter"}
)

type Mangadex struct {
	BaseURL        string
	SeasonalURL    string
	SeasonalListID string
	Language       string
	Client         *http.Client
}

type mangadexTitles struct {
	Result   string         `json:"result"`
	Response string         `json:"response"`
	Data     []domain.Title `json:"data"`
}

type mangadexTitle struct {
	Result string       `json:"result"`
	Data   domain.Title `json:"data"`
}

type mangadexChapters struct {
	Result   string                  `json:"result"`
	Response string                  `json:"response"`
	Data     []domain.ChapterSummary `json:"data"`
	Limit    int                     `json:"limit"`
	Offset   int                     `json:"offset"`
	Total    int                     `json:"total"`
}

type mangadexChapter struct {
	Result  string `json:"result"`
	BaseURL string `json:"baseUrl"`
	Chapter struct {
		Hash      string   `json:"hash"`
		Data      []string `json:"data"`
		DataSaver []string `json:"dataSaver"`
	} `json:"chapter"`
}

type seasonalList struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	MangaIDs []string `json:"manga_ids"`
}

type mangadexList struct {
	Data struct {
		ID            string `json:"id"`
		Relationships []struct {
			ID   string `json:"id"`
			Type string `json:"type"`
		} `json:"relationships"`
	} `json:"data"`
}

func NewMangadex(cfg *domain.Config) *Mangadex {
	m := &Mangadex{
		BaseURL:        mangadexURL,
		SeasonalURL:    seasonalListURL,
		SeasonalListID: cfg.SeasonalListID,
		Language:       cfg.Language,
		Client:         sharedhttp.NewClient(time.Duration(cfg.HTTPTimeout) * time.Second),
	}

	if cfg.APIURL != "" {
		m.BaseURL = cfg.APIURL
	}
	if cfg.SeasonalURL != "" {
		m.SeasonalURL = cfg.SeasonalURL
	}
	if m.Language == "" {
		m.Language = "en"
	}

	return m
}

func (m *Mangadex) String() string {
	return "MangaDex"
}

func validateID(op, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.NewOpError(op, id, domain.ErrInvalidRequest, err)
	}
	return nil
}

// get performs one GET and decodes the JSON body into v. A 404 answer is
// reported as notFound when it is set. No retries happen here.
func (m *Mangadex) get(ctx context.Context, op, id, rawURL string, notFound error, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return domain.NewOpError(op, id, domain.ErrInvalidRequest, err)
	}

	req.Header.Set("User-Agent", sharedhttp.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := sharedhttp.ExecRequest(m.Client, req)
	if err != nil {
		if notFound != nil && sharedhttp.IsNotFound(err) {
			return domain.NewOpError(op, id, notFound, err)
		}
		return domain.NewOpError(op, id, domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(bufio.NewReader(resp.Body)).Decode(v); err != nil {
		return domain.NewOpError(op, id, domain.ErrMalformedResponse, err)
	}

	return nil
}

func (m *Mangadex) endpoint(params url.Values, elem ...string) (string, error) {
	path, err := url.JoinPath(m.BaseURL, elem...)
	if err != nil {
		return "", err
	}

	u, err := url.Parse(path)
	if err != nil {
		return "", err
	}

	if params != nil {
		u.RawQuery = params.Encode()
	}

	return u.String(), nil
}

func (m *Mangadex) FetchChapterFeed(ctx context.Context, titleID string) ([]domain.ChapterSummary, error) {
	const op = "fetch chapter feed"

	if err := validateID(op, titleID); err != nil {
		return nil, err
	}

	var chapters []domain.ChapterSummary
	offset := 0

	for {
		params := url.Values{
			"limit":                []string{strconv.Itoa(mangadexLimit)},
			"offset":               []string{strconv.Itoa(offset)},
			"translatedLanguage[]": []string{m.Language},
			"contentRating[]":      feedContentRatings,
			"includeFutureUpdates": []string{"1"},
		}
		for _, key := range feedOrderKeys {
			params.Set(fmt.Sprintf("order[%s]", key), "asc")
		}

		u, err := m.endpoint(params, "manga", titleID, "feed")
		if err != nil {
			return nil, domain.NewOpError(op, titleID, domain.ErrInvalidRequest, err)
		}

		var chapterResp mangadexChapters
		if err := m.get(ctx, op, titleID, u, nil, &chapterResp); err != nil {
			return nil, err
		}

		chapters = append(chapters, chapterResp.Data...)
		offset += len(chapterResp.Data)

		if len(chapterResp.Data) == 0 || offset >= chapterResp.Total {
			return chapters, nil
		}
	}
}

func (m *Mangadex) FetchPageSet(ctx context.Context, chapterID string) (domain.ChapterPageSet, error) {
	const op = "fetch page set"

	if err := validateID(op, chapterID); err != nil {
		return domain.ChapterPageSet{}, err
	}

	u, err := m.endpoint(nil, "at-home", "server", chapterID)
	if err != nil {
		return domain.ChapterPageSet{}, domain.NewOpError(op, chapterID, domain.ErrInvalidRequest, err)
	}

	var chapterResp mangadexChapter
	if err := m.get(ctx, op, chapterID, u, domain.ErrChapterUnavailable, &chapterResp); err != nil {
		return domain.ChapterPageSet{}, err
	}

	if chapterResp.BaseURL == "" || chapterResp.Chapter.Hash == "" {
		return domain.ChapterPageSet{}, domain.NewOpError(op, chapterID, domain.ErrMalformedResponse, fmt.Errorf("missing baseUrl or hash"))
	}

	return domain.ChapterPageSet{
		ChapterID: chapterID,
		BaseURL:   chapterResp.BaseURL,
		Hash:      chapterResp.Chapter.Hash,
		Data:      chapterResp.Chapter.Data,
		DataSaver: chapterResp.Chapter.DataSaver,
	}, nil
}

func (m *Mangadex) titleListParams() url.Values {
	return url.Values{
		"includedTagsMode":              []string{"AND"},
		"excludedTagsMode":              []string{"OR"},
		"availableTranslatedLanguage[]": []string{m.Language},
		"contentRating[]":               searchContentRatings,
		"order[latestUploadedChapter]":  []string{"desc"},
		"includes[]":                    []string{"manga", "cover_art"},
	}
}

func (m *Mangadex) SearchTitles(ctx context.Context, query string) ([]domain.Title, error) {
	const op = "search titles"

	params := m.titleListParams()
	params.Set("title", query)

	u, err := m.endpoint(params, "manga")
	if err != nil {
		return nil, domain.NewOpError(op, query, domain.ErrInvalidRequest, err)
	}

	var titles mangadexTitles
	if err := m.get(ctx, op, query, u, nil, &titles); err != nil {
		return nil, err
	}

	return titles.Data, nil
}

// FetchCuratedTitleIDs returns the seasonal title ids. The community seasonal
// list is tried first, then the configured MangaDex list.
func (m *Mangadex) FetchCuratedTitleIDs(ctx context.Context) ([]string, error) {
	const op = "fetch curated titles"

	var seasonal seasonalList
	seasonalErr := m.get(ctx, op, "", m.SeasonalURL, nil, &seasonal)
	if seasonalErr == nil && len(seasonal.MangaIDs) > 0 {
		return seasonal.MangaIDs, nil
	}

	if m.SeasonalListID == "" {
		if seasonalErr == nil {
			return nil, nil
		}
		return nil, seasonalErr
	}

	if err := validateID(op, m.SeasonalListID); err != nil {
		return nil, err
	}

	u, err := m.endpoint(nil, "list", m.SeasonalListID)
	if err != nil {
		return nil, domain.NewOpError(op, m.SeasonalListID, domain.ErrInvalidRequest, err)
	}

	var list mangadexList
	if err := m.get(ctx, op, m.SeasonalListID, u, nil, &list); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(list.Data.Relationships))
	for _, rel := range list.Data.Relationships {
		if rel.Type == "manga" {
			ids = append(ids, rel.ID)
		}
	}

	return ids, nil
}

func (m *Mangadex) FetchTitlesByIDs(ctx context.Context, ids []string) ([]domain.Title, error) {
	const op = "fetch titles"

	var out []domain.Title

	for start := 0; start < len(ids); start += mangadexIDsPerQuery {
		end := min(start+mangadexIDsPerQuery, len(ids))
		batch := ids[start:end]

		for _, id := range batch {
			if err := validateID(op, id); err != nil {
				return nil, err
			}
		}

		params := m.titleListParams()
		params["ids[]"] = batch
		params.Set("limit", strconv.Itoa(len(batch)))

		u, err := m.endpoint(params, "manga")
		if err != nil {
			return nil, domain.NewOpError(op, "", domain.ErrInvalidRequest, err)
		}

		var titles mangadexTitles
		if err := m.get(ctx, op, "", u, nil, &titles); err != nil {
			return nil, err
		}

		out = append(out, titles.Data...)
	}

	return out, nil
}

func (m *Mangadex) FetchTitle(ctx context.Context, id string) (domain.Title, error) {
	const op = "fetch title"

	if err := validateID(op, id); err != nil {
		return domain.Title{}, err
	}

	u, err := m.endpoint(url.Values{"includes[]": []string{"cover_art"}}, "manga", id)
	if err != nil {
		return domain.Title{}, domain.NewOpError(op, id, domain.ErrInvalidRequest, err)
	}

	var title mangadexTitle
	if err := m.get(ctx, op, id, u, nil, &title); err != nil {
		return domain.Title{}, err
	}

	if title.Data.ID == "" {
		return domain.Title{}, domain.NewOpError(op, id, domain.ErrMalformedResponse, fmt.Errorf("empty title data"))
	}

	return title.Data, nil
}

// UploadsURL is where cover images are served from.
func UploadsURL(cfg *domain.Config) string {
	if cfg.UploadsURL != "" {
		return cfg.UploadsURL
	}
	return mangadexUploadsURL
}
