package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/drinkwise/drinkwise/internal/domain"
)

// ─── Parties ────────────────────────────────────────────────────────────────

// logPartyRequest is the POST /api/users/{userID}/parties body.
type logPartyRequest struct {
	Date       time.Time            `json:"date"`
	Category   domain.PartyCategory `json:"category"`
	Location   string               `json:"location"`
	Drinks     []domain.Drink       `json:"drinks"`
	Vomiting   int                  `json:"vomi"`
	Fights     int                  `json:"fights"`
	Rejections int                  `json:"recal"`
	Contacts   int                  `json:"girls_talked_to"`
}

// logPartyResponse bundles the stored record with the rewards it earned.
type logPartyResponse struct {
	Party   domain.PartyRecord   `json:"party"`
	Rewards domain.RewardSummary `json:"rewards"`
}

func (s *Server) handleLogParty(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req logPartyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	party := domain.PartyRecord{
		ID:         uuid.NewString(),
		UserID:     userID,
		Date:       req.Date,
		Category:   req.Category,
		Location:   req.Location,
		Drinks:     req.Drinks,
		Vomiting:   req.Vomiting,
		Fights:     req.Fights,
		Rejections: req.Rejections,
		Contacts:   req.Contacts,
	}

	rewards, err := s.svc.CompleteParty(party)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	// Read back by the ID assigned above: the newest entry in the log is
	// not necessarily this party when the submitted date is in the past.
	stored, err := s.db.GetParty(party.ID)
	if err != nil {
		// Rewards are durable even if the read-back fails.
		writeJSON(w, http.StatusCreated, logPartyResponse{Rewards: *rewards})
		return
	}
	writeJSON(w, http.StatusCreated, logPartyResponse{
		Party:   *stored,
		Rewards: *rewards,
	})
}

func (s *Server) handleListParties(w http.ResponseWriter, r *http.Request) {
	parties, err := s.svc.Parties(chi.URLParam(r, "userID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if parties == nil {
		parties = []domain.PartyRecord{}
	}
	writeJSON(w, http.StatusOK, parties)
}

func (s *Server) handleGetParty(w http.ResponseWriter, r *http.Request) {
	party, err := s.db.GetParty(chi.URLParam(r, "partyID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, party)
}

// attachQuizRequest is the POST /api/parties/{partyID}/quiz body.
type attachQuizRequest struct {
	Title     string `json:"title"`
	Questions int    `json:"questions"`
}

func (s *Server) handleAttachQuiz(w http.ResponseWriter, r *http.Request) {
	var req attachQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	rewards, err := s.svc.AttachQuiz(chi.URLParam(r, "partyID"), req.Title, req.Questions)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rewards)
}

// ─── Stats & Profile ────────────────────────────────────────────────────────

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	switch r.URL.Query().Get("period") {
	case "":
		stats, err := s.svc.Stats(userID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	case "weekly":
		stats, err := s.svc.PeriodStats(userID, domain.PeriodWeekly)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	case "monthly":
		stats, err := s.svc.PeriodStats(userID, domain.PeriodMonthly)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	default:
		writeError(w, http.StatusBadRequest, "period must be weekly or monthly")
	}
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.svc.Profile(chi.URLParam(r, "userID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleBadges(w http.ResponseWriter, r *http.Request) {
	badges, err := s.svc.BadgeOverview(chi.URLParam(r, "userID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, badges)
}

func (s *Server) handleChallenges(w http.ResponseWriter, r *http.Request) {
	challenges, err := s.svc.ChallengeOverview(chi.URLParam(r, "userID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, challenges)
}

// ─── Catalogs ───────────────────────────────────────────────────────────────

func (s *Server) handleBadgeCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Badges().Definitions())
}

func (s *Server) handleChallengeCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Challenges().Definitions())
}

// ─── Notifications ──────────────────────────────────────────────────────────

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	notifs, err := s.svc.Notifications().Pending(chi.URLParam(r, "userID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if notifs == nil {
		notifs = []domain.Notification{}
	}
	writeJSON(w, http.StatusOK, notifs)
}

func (s *Server) handleNotificationsShown(w http.ResponseWriter, r *http.Request) {
	n, err := s.svc.Notifications().MarkShown(chi.URLParam(r, "userID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"marked": n})
}

// ─── Groups ─────────────────────────────────────────────────────────────────

// createGroupRequest is the POST /api/groups body.
type createGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedBy   string `json:"created_by"`
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "group name is required")
		return
	}
	group, err := s.svc.CreateGroup(req.Name, req.Description, req.CreatedBy)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, group)
}

func (s *Server) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	group, err := s.svc.Group(chi.URLParam(r, "groupID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

func (s *Server) handleUserGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.svc.GroupsForUser(chi.URLParam(r, "userID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if groups == nil {
		groups = []domain.Group{}
	}
	writeJSON(w, http.StatusOK, groups)
}

// joinGroupRequest is the POST /api/groups/{groupID}/members body.
type joinGroupRequest struct {
	UserID string `json:"user_id"`
}

func (s *Server) handleJoinGroup(w http.ResponseWriter, r *http.Request) {
	var req joinGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if err := s.svc.JoinGroup(chi.URLParam(r, "groupID"), req.UserID); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "joined"})
}

func (s *Server) handleLeaveGroup(w http.ResponseWriter, r *http.Request) {
	requestedBy := r.URL.Query().Get("requested_by")
	memberID := chi.URLParam(r, "memberID")
	if requestedBy == "" {
		requestedBy = memberID
	}
	if err := s.svc.LeaveGroup(chi.URLParam(r, "groupID"), memberID, requestedBy); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "left"})
}

// addGoalRequest is the POST /api/groups/{groupID}/goals body.
type addGoalRequest struct {
	Type        domain.GoalType `json:"type"`
	Target      int             `json:"target"`
	RequestedBy string          `json:"requested_by"`
}

func (s *Server) handleAddGoal(w http.ResponseWriter, r *http.Request) {
	var req addGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	goal, err := s.svc.AddGroupGoal(chi.URLParam(r, "groupID"), req.RequestedBy, req.Type, req.Target)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, goal)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	requestedBy := r.URL.Query().Get("requested_by")
	err := s.svc.DeleteGroupGoal(chi.URLParam(r, "groupID"), chi.URLParam(r, "goalID"), requestedBy)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleRefreshGroup(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")
	if err := s.svc.RefreshGroup(groupID); err != nil {
		writeDomainError(w, err)
		return
	}
	group, err := s.svc.Group(groupID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

// ─── Error Mapping ──────────────────────────────────────────────────────────

// writeDomainError maps domain sentinels to HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrProfileNotFound),
		errors.Is(err, domain.ErrPartyNotFound),
		errors.Is(err, domain.ErrGroupNotFound),
		errors.Is(err, domain.ErrGoalNotFound),
		errors.Is(err, domain.ErrNotMember):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrEmptyUserID),
		errors.Is(err, domain.ErrUnknownGoal),
		errors.Is(err, domain.ErrUnknownBadge),
		errors.Is(err, domain.ErrUnknownChallenge):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrAlreadyMember):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrNotGroupAdmin):
		writeError(w, http.StatusForbidden, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
