package ea

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// AlternatePlatform returns the other generation value.
func AlternatePlatform(platform string) string {
	if platform == PlatformGen5 {
		return PlatformGen4
	}
	return PlatformGen5
}

// PlatformFromChoice converts a user-facing generation choice to the
// platform value the API expects.
func PlatformFromChoice(gen string) string {
	switch strings.ToLower(gen) {
	case "gen4", "ps4", "xb1", "last", "old":
		return PlatformGen4
	default:
		return PlatformGen5
	}
}

var clubIDPattern = regexp.MustCompile(`[?&]clubId=(\d+)`)

// ParseClubID accepts either a numeric club id or an EA URL containing
// clubId=... and returns the id, or 0 when neither matches.
func ParseClubID(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return id
	}
	if m := clubIDPattern.FindStringSubmatch(s); m != nil {
		id, _ := strconv.ParseInt(m[1], 10, 64)
		return id
	}
	return 0
}

// ClubInfo fetches the club's info entry. On any non-forbidden failure it
// retries once against the alternate generation platform and reports which
// platform worked. A forbidden error propagates immediately: the block
// applies regardless of platform, and falling back would only double the
// blocked traffic.
func (c *Client) ClubInfo(ctx context.Context, platform string, clubID int64) (Club, string, error) {
	club, err := c.clubInfoOn(ctx, platform, clubID)
	if err == nil {
		return club, platform, nil
	}
	var forbidden *ForbiddenError
	if errors.As(err, &forbidden) {
		return Club{}, "", err
	}

	other := AlternatePlatform(platform)
	slog.Debug("club info failed, trying alternate platform", "club", clubID, "platform", other, "error", err)
	club, err2 := c.clubInfoOn(ctx, other, clubID)
	if err2 != nil {
		return Club{}, "", err
	}
	return club, other, nil
}

func (c *Client) clubInfoOn(ctx context.Context, platform string, clubID int64) (Club, error) {
	params := url.Values{
		"platform": {platform},
		"clubIds":  {strconv.FormatInt(clubID, 10)},
	}
	body, err := c.get(ctx, "/clubs/info", params)
	if err != nil {
		return Club{}, err
	}
	return normalizeClubInfo(body, clubID)
}

// LatestMatch returns the most recent match of the given type, or nil when
// the club has no matches of that type yet. Matches arrive newest-first.
func (c *Client) LatestMatch(ctx context.Context, platform string, clubID int64, matchType string) (*Match, error) {
	matches, err := c.Matches(ctx, platform, clubID, matchType, 1)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}
	return &matches[0], nil
}

// Matches returns up to maxCount matches of the given type, newest first.
func (c *Client) Matches(ctx context.Context, platform string, clubID int64, matchType string, maxCount int) ([]Match, error) {
	params := url.Values{
		"platform":       {platform},
		"clubIds":        {strconv.FormatInt(clubID, 10)},
		"matchType":      {matchType},
		"maxResultCount": {strconv.Itoa(maxCount)},
	}
	body, err := c.get(ctx, "/clubs/matches", params)
	if err != nil {
		return nil, err
	}
	return normalizeMatches(body)
}

// MemberStats returns the cumulative career stats for the club's roster.
func (c *Client) MemberStats(ctx context.Context, platform string, clubID int64) ([]Member, error) {
	// Note: this endpoint takes clubId, not clubIds.
	params := url.Values{
		"platform": {platform},
		"clubId":   {strconv.FormatInt(clubID, 10)},
	}
	body, err := c.get(ctx, "/members/stats", params)
	if err != nil {
		return nil, err
	}
	return normalizeMembers(body)
}
