package webapi

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/gravitrone/polytag/internal/tag"
)

// FindLanguageByLocale returns the language record for a locale, or nil when
// none exists.
func (c *Client) FindLanguageByLocale(ctx context.Context, lcid string) (*tag.Language, error) {
	s := c.schema
	params := url.Values{
		"$select": {strings.Join([]string{s.LanguageID, s.LanguageLCID, s.LanguageCode, s.LanguageName}, ",")},
		"$filter": {fmt.Sprintf("%s eq %s", s.LanguageLCID, quote(tag.NormalizeLCID(lcid)))},
		"$top":    {"1"},
	}
	data, err := c.get(ctx, buildQuery("/"+s.LanguageSet, params))
	if err != nil {
		return nil, fmt.Errorf("find language %s: %w", lcid, err)
	}
	rows, err := decodeList[row](data)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	r := rows[0]
	return &tag.Language{
		ID:   r.str(s.LanguageID),
		LCID: tag.NormalizeLCID(r.str(s.LanguageLCID)),
		Code: r.str(s.LanguageCode),
		Name: r.str(s.LanguageName),
	}, nil
}
