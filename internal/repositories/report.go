package repositories

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"logbiz/recruitment-api/internal/models"
)

type ReportRepository interface {
	DashboardStats(now time.Time) (*models.DashboardStats, error)
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

// DashboardStats implements ReportRepository.
func (r *reportRepository) DashboardStats(now time.Time) (*models.DashboardStats, error) {
	stats := &models.DashboardStats{}

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&stats.Overview.TotalProjects, r.db.Model(&models.Project{}).Where("is_active = ?", true)},
		{&stats.Overview.TotalAssignments, r.db.Model(&models.Assignment{}).Where("is_active = ?", true)},
		{&stats.Overview.TotalCandidates, r.db.Model(&models.User{}).Where("role = ?", models.RoleCandidate)},
		{&stats.Overview.TotalReviewers, r.db.Model(&models.User{}).Where("role = ?", models.RoleReviewer)},
		{&stats.Assignments.TotalAssigned, r.db.Model(&models.CandidateAssignment{})},
		{&stats.Assignments.Completed, r.db.Model(&models.CandidateAssignment{}).
			Where("status = ?", models.StatusCompleted)},
		{&stats.Assignments.InProgress, r.db.Model(&models.CandidateAssignment{}).
			Where("status = ?", models.StatusInProgress)},
		{&stats.Assignments.Overdue, r.db.Model(&models.CandidateAssignment{}).
			Where("deadline < ? AND status IN ?", now,
				[]models.AssignmentStatus{models.StatusAssigned, models.StatusInProgress})},
		{&stats.Certificates.TotalIssued, r.db.Model(&models.Certificate{}).
			Where("is_active = ?", true)},
		{&stats.Certificates.Passing, r.db.Model(&models.Certificate{}).
			Where("is_active = ? AND score >= ?", true, models.PassingScore)},
		{&stats.RecentActivity.NewAssignments30d, r.db.Model(&models.CandidateAssignment{}).
			Where("assigned_at >= ?", now.AddDate(0, 0, -30))},
		{&stats.RecentActivity.Completions30d, r.db.Model(&models.CandidateAssignment{}).
			Where("status = ? AND assigned_at >= ?", models.StatusCompleted, now.AddDate(0, 0, -30))},
	}

	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("failed to compute dashboard stats: %w", err)
		}
	}

	if stats.Assignments.TotalAssigned > 0 {
		stats.Assignments.CompletionRate = round2(float64(stats.Assignments.Completed) /
			float64(stats.Assignments.TotalAssigned) * 100)
	}
	if stats.Certificates.TotalIssued > 0 {
		stats.Certificates.PassRate = round2(float64(stats.Certificates.Passing) /
			float64(stats.Certificates.TotalIssued) * 100)
	}

	return stats, nil
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
