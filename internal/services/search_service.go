package services

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"parishlink/internal/logger"
	"parishlink/internal/models"
	"parishlink/internal/repositories"
	"parishlink/internal/services/dto"
)

// Clients show the last handful of searches; older rows stay in the
// table but never surface.
const searchHistoryLimit = 10

type SearchService struct {
	profileRepo repositories.ProfileRepository
	userRepo    repositories.UserRepository
	searchRepo  repositories.SearchRepository
}

func NewSearchService(
	profileRepo repositories.ProfileRepository,
	userRepo repositories.UserRepository,
	searchRepo repositories.SearchRepository,
) *SearchService {
	return &SearchService{
		profileRepo: profileRepo,
		userRepo:    userRepo,
		searchRepo:  searchRepo,
	}
}

// SearchProfiles runs a directory search over approved profiles and
// records the query in the caller's history. History write failures
// never fail the search.
func (s *SearchService) SearchProfiles(db *gorm.DB, userID string, criteria repositories.ProfileSearchCriteria) (*dto.ProfileListResponse, error) {
	if criteria.Page < 1 {
		criteria.Page = 1
	}
	if criteria.PageSize < 1 || criteria.PageSize > 100 {
		criteria.PageSize = 20
	}

	profiles, total, err := s.profileRepo.Search(db, criteria)
	if err != nil {
		return nil, dbErr("search", "search profiles", err)
	}

	s.recordHistory(db, userID, criteria)

	userIDs := make([]string, 0, len(profiles))
	for i := range profiles {
		userIDs = append(userIDs, profiles[i].UserID)
	}
	owners := map[string]*models.User{}
	if users, err := s.userRepo.FindByIDs(db, userIDs); err == nil {
		for i := range users {
			owners[users[i].ID] = &users[i]
		}
	}

	resp := &dto.ProfileListResponse{
		Profiles: make([]*dto.ProfileResponse, 0, len(profiles)),
		Total:    total,
		Page:     criteria.Page,
		PageSize: criteria.PageSize,
	}
	for i := range profiles {
		resp.Profiles = append(resp.Profiles, toProfileResponse(&profiles[i], owners[profiles[i].UserID]))
	}
	return resp, nil
}

func (s *SearchService) recordHistory(db *gorm.DB, userID string, criteria repositories.ProfileSearchCriteria) {
	if criteria.Query == "" {
		return
	}
	filters := map[string]string{}
	if criteria.Category != "" {
		filters["category"] = criteria.Category
	}
	if criteria.Location != "" {
		filters["location"] = criteria.Location
	}
	if criteria.Country != "" {
		filters["country"] = criteria.Country
	}

	entry := &models.SearchHistory{UserID: userID, Query: criteria.Query}
	if len(filters) > 0 {
		if raw, err := json.Marshal(filters); err == nil {
			entry.Filters = datatypes.JSON(raw)
		}
	}
	if err := s.searchRepo.RecordSearch(db, entry); err != nil {
		logger.WithError(err).Warn("search history write failed", "user_id", userID)
	}
}

func (s *SearchService) History(db *gorm.DB, userID string) (*dto.SearchHistoryResponse, error) {
	entries, err := s.searchRepo.FindRecent(db, userID, searchHistoryLimit)
	if err != nil {
		return nil, dbErr("search", "load search history", err)
	}

	resp := &dto.SearchHistoryResponse{Entries: make([]*dto.SearchHistoryEntry, 0, len(entries))}
	for i := range entries {
		e := &dto.SearchHistoryEntry{
			ID:        entries[i].ID,
			Query:     entries[i].Query,
			CreatedAt: entries[i].CreatedAt,
		}
		if len(entries[i].Filters) > 0 {
			var filters map[string]string
			if err := json.Unmarshal(entries[i].Filters, &filters); err == nil {
				e.Filters = filters
			}
		}
		resp.Entries = append(resp.Entries, e)
	}
	return resp, nil
}

func (s *SearchService) ClearHistory(db *gorm.DB, userID string) error {
	if err := s.searchRepo.ClearForUser(db, userID); err != nil {
		return dbErr("search", "clear search history", err)
	}
	return nil
}

// Suggest completes profession names from a prefix.
func (s *SearchService) Suggest(db *gorm.DB, prefix string) (*dto.SuggestionsResponse, error) {
	if len(prefix) < 2 {
		return &dto.SuggestionsResponse{Suggestions: []string{}}, nil
	}
	suggestions, err := s.profileRepo.SuggestSkills(db, prefix, 10)
	if err != nil {
		return nil, dbErr("search", "load suggestions", err)
	}
	return &dto.SuggestionsResponse{Suggestions: suggestions}, nil
}
