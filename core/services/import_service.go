package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ladder-api/core/models"

	"gorm.io/gorm"
)

const challongeBaseURL = "https://api.challonge.com/v1"

// ImportService pulls a completed bracket from the Challonge API and
// turns it into local players, matches, and a tournament, then queues a
// replay of the covering season. Participants are matched to existing
// players by case-insensitive name; unmatched ones are created.
type ImportService struct {
	db     *gorm.DB
	recalc *RecalculationService

	httpClient *http.Client
	baseURL    string
	username   string
	apiKey     string
}

func NewImportService(db *gorm.DB, recalc *RecalculationService, username, apiKey string) *ImportService {
	return &ImportService{
		db:         db,
		recalc:     recalc,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    challongeBaseURL,
		username:   username,
		apiKey:     apiKey,
	}
}

// Challonge API response shapes (only the fields we read).

type challongeTournament struct {
	Tournament struct {
		Name        string  `json:"name"`
		StartedAt   *string `json:"started_at"`
		CompletedAt *string `json:"completed_at"`
	} `json:"tournament"`
}

type challongeParticipant struct {
	Participant struct {
		ID          int     `json:"id"`
		Name        *string `json:"name"`
		Username    *string `json:"username"`
		DisplayName *string `json:"display_name"`
	} `json:"participant"`
}

type challongeMatch struct {
	Match struct {
		State       string  `json:"state"`
		WinnerID    *int    `json:"winner_id"`
		LoserID     *int    `json:"loser_id"`
		CompletedAt *string `json:"completed_at"`
		Round       int     `json:"round"`
	} `json:"match"`
}

func (s *ImportService) fetch(endpoint string, out interface{}) error {
	if s.username == "" || s.apiKey == "" {
		return errors.New("challonge credentials not configured")
	}

	req, err := http.NewRequest(http.MethodGet, s.baseURL+endpoint, nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(s.username, s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return errors.New("failed to connect to Challonge API")
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return errors.New("tournament not found on Challonge")
	case http.StatusUnauthorized:
		return errors.New("invalid Challonge credentials")
	case http.StatusTooManyRequests:
		return errors.New("Challonge rate limit exceeded, try again later")
	default:
		return fmt.Errorf("challonge API error: %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func participantName(p challongeParticipant) string {
	for _, candidate := range []*string{p.Participant.Username, p.Participant.DisplayName, p.Participant.Name} {
		if candidate != nil && *candidate != "" {
			return *candidate
		}
	}
	return ""
}

func parseChallongeTime(value *string) *int64 {
	if value == nil || *value == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, *value)
	if err != nil {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}

// finalMatch picks the completed match with the highest round, which is
// the bracket final; its winner is the tournament winner.
func finalMatch(completed []challongeMatch) *challongeMatch {
	if len(completed) == 0 {
		return nil
	}
	final := &completed[0]
	for i := range completed {
		if completed[i].Match.Round > final.Match.Round {
			final = &completed[i]
		}
	}
	return final
}

func completedMatches(all []challongeMatch) []challongeMatch {
	var completed []challongeMatch
	for _, m := range all {
		if m.Match.State == "complete" {
			completed = append(completed, m)
		}
	}
	return completed
}

// matchParticipants maps Challonge participant ids to local player ids
// by case-insensitive name, returning the mapping plus the unmatched
// participants in bracket order.
func (s *ImportService) matchParticipants(participants []challongeParticipant) (map[int]uint, []challongeParticipant, error) {
	var players []models.Player
	if err := s.db.Find(&players).Error; err != nil {
		return nil, nil, err
	}

	byName := make(map[string]uint, len(players))
	for _, player := range players {
		byName[strings.ToLower(strings.TrimSpace(player.Name))] = player.ID
	}

	matched := make(map[int]uint)
	var unmatched []challongeParticipant
	for _, participant := range participants {
		name := participantName(participant)
		if name == "" {
			continue
		}
		if playerID, ok := byName[strings.ToLower(strings.TrimSpace(name))]; ok {
			matched[participant.Participant.ID] = playerID
		} else {
			unmatched = append(unmatched, participant)
		}
	}

	return matched, unmatched, nil
}

// PreviewTournament fetches a bracket and reports what an import would
// do without writing anything.
func (s *ImportService) PreviewTournament(tournamentRef string) (*models.ImportPreview, error) {
	var tournament challongeTournament
	if err := s.fetch(fmt.Sprintf("/tournaments/%s.json", tournamentRef), &tournament); err != nil {
		return nil, err
	}

	var participants []challongeParticipant
	if err := s.fetch(fmt.Sprintf("/tournaments/%s/participants.json", tournamentRef), &participants); err != nil {
		return nil, err
	}
	if len(participants) == 0 {
		return nil, errors.New("tournament has no participants")
	}

	var matches []challongeMatch
	if err := s.fetch(fmt.Sprintf("/tournaments/%s/matches.json", tournamentRef), &matches); err != nil {
		return nil, err
	}
	completed := completedMatches(matches)
	if len(completed) == 0 {
		return nil, errors.New("tournament has no completed matches to import")
	}

	matched, _, err := s.matchParticipants(participants)
	if err != nil {
		return nil, err
	}

	preview := &models.ImportPreview{
		TournamentName:   tournament.Tournament.Name,
		CompletedMatches: len(completed),
	}

	for _, participant := range participants {
		name := participantName(participant)
		if name == "" {
			name = "Unknown"
		}
		item := models.ImportParticipantPreview{Username: name}
		if playerID, ok := matched[participant.Participant.ID]; ok {
			item.Existing = true
			item.PlayerID = &playerID
		}
		preview.Participants = append(preview.Participants, item)
	}

	if final := finalMatch(completed); final != nil && final.Match.WinnerID != nil {
		for _, participant := range participants {
			if participant.Participant.ID == *final.Match.WinnerID {
				preview.WinnerName = participantName(participant)
				if playerID, ok := matched[participant.Participant.ID]; ok {
					preview.WinnerID = &playerID
				}
				break
			}
		}
	}

	if date := parseChallongeTime(tournament.Tournament.CompletedAt); date != nil {
		preview.TournamentDate = date
	} else {
		preview.TournamentDate = parseChallongeTime(tournament.Tournament.StartedAt)
	}

	return preview, nil
}

// ImportTournament fetches the bracket again and persists it: missing
// players, the tournament, and every completed match, in one
// transaction. The covering season is replayed afterwards.
func (s *ImportService) ImportTournament(req models.ImportTournamentRequest) (*models.ImportResult, error) {
	var participants []challongeParticipant
	if err := s.fetch(fmt.Sprintf("/tournaments/%s/participants.json", req.TournamentRef), &participants); err != nil {
		return nil, err
	}

	var matches []challongeMatch
	if err := s.fetch(fmt.Sprintf("/tournaments/%s/matches.json", req.TournamentRef), &matches); err != nil {
		return nil, err
	}
	completed := completedMatches(matches)
	if len(completed) == 0 {
		return nil, errors.New("tournament has no completed matches to import")
	}

	final := finalMatch(completed)
	if final == nil || final.Match.WinnerID == nil {
		return nil, errors.New("could not determine tournament winner")
	}

	matched, unmatched, err := s.matchParticipants(participants)
	if err != nil {
		return nil, err
	}

	result := &models.ImportResult{PlayersMatched: len(matched)}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, participant := range unmatched {
			player := models.Player{
				Name: participantName(participant),
				Role: models.RolePlayer,
			}
			if err := tx.Create(&player).Error; err != nil {
				return err
			}
			matched[participant.Participant.ID] = player.ID
			result.PlayersCreated++
		}

		winnerID, ok := matched[*final.Match.WinnerID]
		if !ok {
			return errors.New("could not resolve tournament winner")
		}

		tournament := models.Tournament{
			Name:     req.TournamentName,
			Date:     req.TournamentDate,
			WinnerID: winnerID,
		}
		if err := tx.Create(&tournament).Error; err != nil {
			return err
		}
		result.TournamentID = tournament.ID

		for _, m := range completed {
			if m.Match.WinnerID == nil || m.Match.LoserID == nil {
				continue
			}
			matchWinner, winnerOK := matched[*m.Match.WinnerID]
			matchLoser, loserOK := matched[*m.Match.LoserID]
			if !winnerOK || !loserOK {
				continue
			}

			date := req.TournamentDate
			if completedAt := parseChallongeTime(m.Match.CompletedAt); completedAt != nil {
				date = *completedAt
			}

			match := models.Match{
				Date:         date,
				WinnerID:     matchWinner,
				LoserID:      matchLoser,
				TournamentID: &tournament.ID,
			}
			if err := tx.Create(&match).Error; err != nil {
				return err
			}
			result.MatchesImported++
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recalc.ScheduleForDate(req.TournamentDate)

	return result, nil
}
