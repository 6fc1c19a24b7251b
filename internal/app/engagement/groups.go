package engagement

import (
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/drinkwise/drinkwise/internal/domain"
	"github.com/drinkwise/drinkwise/internal/infra/metrics"
)

// ─── Group Operations ───────────────────────────────────────────────────────

// CreateGroup creates a group with the creator as first admin member.
func (s *Service) CreateGroup(name, description, createdBy string) (*domain.Group, error) {
	if createdBy == "" {
		return nil, domain.ErrEmptyUserID
	}
	now := s.now().UTC()
	g := domain.Group{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.db.CreateGroup(g); err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}
	return s.db.GetGroup(g.ID)
}

// Group returns a group with members, goals and cached stats.
func (s *Service) Group(id string) (*domain.Group, error) {
	return s.db.GetGroup(id)
}

// GroupsForUser returns every group the user belongs to.
func (s *Service) GroupsForUser(userID string) ([]domain.Group, error) {
	return s.db.ListGroupsForUser(userID)
}

// JoinGroup enrolls a user and refreshes the group aggregate.
func (s *Service) JoinGroup(groupID, userID string) error {
	if userID == "" {
		return domain.ErrEmptyUserID
	}
	if _, err := s.db.GetGroup(groupID); err != nil {
		return err
	}
	if err := s.db.AddMember(groupID, userID, s.now().UTC()); err != nil {
		return err
	}
	return s.RefreshGroup(groupID)
}

// LeaveGroup removes a member. requestedBy must be the member themselves or
// a group admin.
func (s *Service) LeaveGroup(groupID, userID, requestedBy string) error {
	g, err := s.db.GetGroup(groupID)
	if err != nil {
		return err
	}
	if requestedBy != userID && !g.IsAdmin(requestedBy) {
		return domain.ErrNotGroupAdmin
	}
	if err := s.db.RemoveMember(groupID, userID); err != nil {
		return err
	}
	return s.RefreshGroup(groupID)
}

// AddGroupGoal attaches a collective goal. Admin only. The goal type must
// be one of the known goal types.
func (s *Service) AddGroupGoal(groupID, requestedBy string, goalType domain.GoalType, target int) (*domain.GroupGoal, error) {
	g, err := s.db.GetGroup(groupID)
	if err != nil {
		return nil, err
	}
	if !g.IsAdmin(requestedBy) {
		return nil, domain.ErrNotGroupAdmin
	}
	if _, ok := (domain.GroupStats{}).Value(goalType); !ok {
		return nil, domain.ErrUnknownGoal
	}

	goal := domain.GroupGoal{
		ID:        uuid.NewString(),
		Type:      goalType,
		Target:    target,
		CreatedAt: s.now().UTC(),
	}
	if err := s.db.AddGoal(groupID, goal); err != nil {
		return nil, fmt.Errorf("add goal: %w", err)
	}
	// A goal the group already satisfies completes immediately.
	if err := s.RefreshGroup(groupID); err != nil {
		return nil, err
	}
	return &goal, nil
}

// DeleteGroupGoal removes a goal. Admin only.
func (s *Service) DeleteGroupGoal(groupID, goalID, requestedBy string) error {
	g, err := s.db.GetGroup(groupID)
	if err != nil {
		return err
	}
	if !g.IsAdmin(requestedBy) {
		return domain.ErrNotGroupAdmin
	}
	return s.db.DeleteGoal(goalID)
}

// RefreshGroup recomputes the group aggregate from its members' public
// snapshots and completes any goals the new stats satisfy. Members without
// a published snapshot contribute nothing.
func (s *Service) RefreshGroup(groupID string) error {
	g, err := s.db.GetGroup(groupID)
	if err != nil {
		return err
	}

	members := make([]MemberSnapshot, 0, len(g.Members))
	for _, userID := range g.Members {
		ps, err := s.db.GetPublicStats(userID)
		if err != nil {
			return fmt.Errorf("public stats for %s: %w", userID, err)
		}
		snap := MemberSnapshot{UserID: userID}
		if ps != nil {
			snap.Stats = ps.Stats
			snap.BadgeCount = ps.BadgeCount
			snap.ChallengesCompleted = ps.ChallengesCompleted
		}
		members = append(members, snap)
	}

	now := s.now().UTC()
	stats := AggregateGroup(members)
	if err := s.db.UpdateGroupStats(groupID, stats, now); err != nil {
		return err
	}

	for _, goal := range EvaluateGoals(g.Goals, stats, now) {
		if err := s.db.CompleteGoal(goal.ID, now); err != nil {
			return fmt.Errorf("complete goal %s: %w", goal.ID, err)
		}
		metrics.GroupGoalsCompleted.WithLabelValues(string(goal.Type)).Inc()
		g.Stats = stats
		if err := s.notifs.RecordGoalCompleted(*g, goal); err != nil {
			log.Printf("[engagement] notify group %s: %v", groupID, err)
		}
	}
	return nil
}
