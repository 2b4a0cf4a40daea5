package mockapi

import "github.com/drake/portal/api"

// Projects are the sprint work items served by the mock endpoint, in the
// order the workspace lists them.
var Projects = []api.WorkItem{
	{
		ID:          "sprint1-cw45-001",
		Title:       "Design internal data bus - Event Streaming",
		Description: "Choose and configure Message Broker architecture (Apache Kafka + Spring)",
		Category:    "Sprint 1: CW45",
		Status:      api.WorkInbox,
	},
	{
		ID:          "sprint1-cw45-002",
		Title:       "Define Data Model on Meta-store",
		Description: "Design the ontology-aware data structures for internal storage",
		Category:    "Sprint 1: CW45",
		Status:      api.WorkInbox,
	},
	{
		ID:          "sprint1-cw45-003",
		Title:       "Define Transformation from DMP to internal Store",
		Description: "Create mapping logic between DMP data and internal storage format",
		Category:    "Sprint 1: CW45",
		Status:      api.WorkInbox,
	},
	{
		ID:          "sprint2-cw46-001",
		Title:       "Design internal data bus - Optimization",
		Description: "Optimize message broker for production use",
		Category:    "Sprint 2: CW46",
		Status:      api.WorkInbox,
	},
	{
		ID:          "sprint3-cw05-001",
		Title:       "GET list_active_projects endpoint",
		Description: "Create API endpoint: GET /api/list_active_projects with userID parameter",
		Category:    "Sprint 3: CW05",
		Status:      api.WorkInbox,
	},
	{
		ID:          "sprint3-cw05-002",
		Title:       "GET project_description endpoint",
		Description: "Create API endpoint: GET /api/project_description with projectID parameter",
		Category:    "Sprint 3: CW05",
		Status:      api.WorkInbox,
	},
	{
		ID:          "sprint3-cw05-003",
		Title:       "GET project_destination endpoint",
		Description: "Create API endpoint: GET /api/project_destination returning publication platforms",
		Category:    "Sprint 3: CW05",
		Status:      api.WorkInbox,
	},
}

// Destinations are the publication platforms every project reports.
var Destinations = []string{"Zenodo", "GitHub", "Helmholtz Knowledge Graph"}
