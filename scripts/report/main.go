package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"logbiz/recruitment-api/internal/config"
	"logbiz/recruitment-api/internal/repositories"
)

// Prints the recruitment dashboard to the terminal for quick operational
// checks without the API.
func main() {
	cfg := config.Load()

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	stats, err := repositories.NewReportRepository(db).DashboardStats(time.Now())
	if err != nil {
		log.Fatalf("❌ Failed to compute dashboard stats: %v", err)
	}

	color.Cyan("\n=== Recruitment Dashboard ===")

	color.Yellow("\nOverview")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Projects", "Assignments", "Candidates", "Reviewers"})
	table.Append([]string{
		fmt.Sprintf("%d", stats.Overview.TotalProjects),
		fmt.Sprintf("%d", stats.Overview.TotalAssignments),
		fmt.Sprintf("%d", stats.Overview.TotalCandidates),
		fmt.Sprintf("%d", stats.Overview.TotalReviewers),
	})
	table.Render()

	color.Yellow("\nAssignments")
	table = tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Assigned", "Completed", "In Progress", "Overdue", "Completion Rate"})
	table.Append([]string{
		fmt.Sprintf("%d", stats.Assignments.TotalAssigned),
		fmt.Sprintf("%d", stats.Assignments.Completed),
		fmt.Sprintf("%d", stats.Assignments.InProgress),
		fmt.Sprintf("%d", stats.Assignments.Overdue),
		fmt.Sprintf("%.2f%%", stats.Assignments.CompletionRate),
	})
	table.Render()

	color.Yellow("\nCertificates")
	table = tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Issued", "Passing", "Pass Rate"})
	table.Append([]string{
		fmt.Sprintf("%d", stats.Certificates.TotalIssued),
		fmt.Sprintf("%d", stats.Certificates.Passing),
		fmt.Sprintf("%.2f%%", stats.Certificates.PassRate),
	})
	table.Render()

	color.Yellow("\nLast 30 Days")
	table = tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"New Assignments", "Completions"})
	table.Append([]string{
		fmt.Sprintf("%d", stats.RecentActivity.NewAssignments30d),
		fmt.Sprintf("%d", stats.RecentActivity.Completions30d),
	})
	table.Render()

	color.Green("\nDone.")
}
