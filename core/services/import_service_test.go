package services

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"ladder-api/core/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func fakeChallonge(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/tournaments/weekly42.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"tournament":{"name":"Weekly #42","started_at":"2025-06-01T18:00:00Z","completed_at":"2025-06-01T22:00:00Z"}}`)
	})
	mux.HandleFunc("/tournaments/weekly42/participants.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"participant":{"id":1,"username":"Alice"}},
			{"participant":{"id":2,"display_name":"Bob"}},
			{"participant":{"id":3,"name":"Newcomer"}}
		]`)
	})
	mux.HandleFunc("/tournaments/weekly42/matches.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"match":{"state":"complete","winner_id":1,"loser_id":2,"round":1,"completed_at":"2025-06-01T19:00:00Z"}},
			{"match":{"state":"complete","winner_id":3,"loser_id":1,"round":2,"completed_at":"2025-06-01T21:00:00Z"}},
			{"match":{"state":"open","winner_id":null,"loser_id":null,"round":3}}
		]`)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestImportService(db *gorm.DB, recalc *RecalculationService, baseURL string) *ImportService {
	svc := NewImportService(db, recalc, "user", "key")
	svc.baseURL = baseURL
	return svc
}

func TestPreviewTournament(t *testing.T) {
	db := setupTestDB(t)
	recalc := NewRecalculationService(db, nil)
	server := fakeChallonge(t)
	imports := newTestImportService(db, recalc, server.URL)

	createPlayer(t, db, "alice") // matched case-insensitively
	createPlayer(t, db, "Bob")

	preview, err := imports.PreviewTournament("weekly42")
	require.NoError(t, err)

	assert.Equal(t, "Weekly #42", preview.TournamentName)
	assert.Equal(t, 2, preview.CompletedMatches)
	require.Len(t, preview.Participants, 3)
	assert.True(t, preview.Participants[0].Existing)
	assert.True(t, preview.Participants[1].Existing)
	assert.False(t, preview.Participants[2].Existing)

	// Highest completed round decides the winner.
	assert.Equal(t, "Newcomer", preview.WinnerName)
	assert.Nil(t, preview.WinnerID)
	require.NotNil(t, preview.TournamentDate)
}

func TestImportTournament(t *testing.T) {
	db := setupTestDB(t)
	recalc := NewRecalculationService(db, nil)
	server := fakeChallonge(t)
	imports := newTestImportService(db, recalc, server.URL)

	alice := createPlayer(t, db, "Alice")
	createPlayer(t, db, "Bob")
	season := createSeason(t, db, "Summer", 0, nowMs()+1000*dayMs)

	result, err := imports.ImportTournament(models.ImportTournamentRequest{
		TournamentRef:  "weekly42",
		TournamentName: "Weekly #42",
		TournamentDate: nowMs(),
	})
	require.NoError(t, err)
	recalc.Wait()

	assert.Equal(t, 2, result.PlayersMatched)
	assert.Equal(t, 1, result.PlayersCreated)
	assert.Equal(t, 2, result.MatchesImported)

	var newcomer models.Player
	require.NoError(t, db.Where("name = ?", "Newcomer").First(&newcomer).Error)

	var tournament models.Tournament
	require.NoError(t, db.First(&tournament, result.TournamentID).Error)
	assert.Equal(t, newcomer.ID, tournament.WinnerID)

	var matchCount int64
	require.NoError(t, db.Model(&models.Match{}).
		Where("tournament_id = ?", tournament.ID).Count(&matchCount).Error)
	assert.Equal(t, int64(2), matchCount)

	// Replay ran: imported matches produced snapshots, including the
	// matched player's.
	var aliceSnapshots int64
	require.NoError(t, db.Model(&models.RatingSnapshot{}).
		Where("season_id = ? AND player_id = ?", season.ID, alice.ID).
		Count(&aliceSnapshots).Error)
	assert.NotZero(t, aliceSnapshots)
}

func TestImportTournamentWithoutCredentials(t *testing.T) {
	db := setupTestDB(t)
	recalc := NewRecalculationService(db, nil)
	imports := NewImportService(db, recalc, "", "")

	_, err := imports.PreviewTournament("weekly42")
	assert.EqualError(t, err, "challonge credentials not configured")
}

func TestImportTournamentNotFoundUpstream(t *testing.T) {
	db := setupTestDB(t)
	recalc := NewRecalculationService(db, nil)
	server := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(server.Close)
	imports := newTestImportService(db, recalc, server.URL)

	_, err := imports.PreviewTournament("missing")
	assert.EqualError(t, err, "tournament not found on Challonge")
}
