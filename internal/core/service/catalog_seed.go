package service

import "github.com/deepmetric/institute-portal/internal/core/domain"

// SeedCatalog is the starter catalog stored the first time the portal runs
// against an empty store.
func SeedCatalog() []domain.Course {
	return []domain.Course{
		{
			ID:          "1",
			Title:       "Data Analytics Foundations",
			Description: "<p>Spreadsheets, descriptive statistics and dashboards for analysts starting out.</p>",
			Instructor:  "Dr. Kwame Mensah",
			Duration:    "6 weeks",
			Level:       domain.LevelBeginner,
			Price:       1500,
			Tags:        []string{"Excel", "Statistics", "Dashboards"},
			Image:       "https://images.unsplash.com/photo-1551288049-bebda4e38f71",
			Requirements: []string{
				"A laptop with a spreadsheet application",
			},
		},
		{
			ID:          "2",
			Title:       "Python for Data Science",
			Description: "<p>Python, pandas and visualisation for cleaning, exploring and presenting data.</p>",
			Instructor:  "Abena Owusu",
			Duration:    "8 weeks",
			Level:       domain.LevelIntermediate,
			Price:       2500,
			Tags:        []string{"Python", "Pandas", "Data Science"},
			Image:       "https://images.unsplash.com/photo-1526379095098-d400fd0bf935",
			Requirements: []string{
				"Basic programming experience",
				"Data Analytics Foundations or equivalent",
			},
		},
		{
			ID:          "3",
			Title:       "SQL and Data Warehousing",
			Description: "<p>Query design, joins, window functions and modelling a warehouse for reporting.</p>",
			Instructor:  "Yaw Boateng",
			Duration:    "5 weeks",
			Level:       domain.LevelIntermediate,
			Price:       1800,
			Tags:        []string{"SQL", "Databases", "ETL"},
			Image:       "https://images.unsplash.com/photo-1544383835-bda2bc66a55d",
		},
		{
			ID:          "4",
			Title:       "Machine Learning in Practice",
			Description: "<p>Supervised and unsupervised models, evaluation and deployment with scikit-learn.</p>",
			Instructor:  "Dr. Efua Asante",
			Duration:    "10 weeks",
			Level:       domain.LevelAdvanced,
			Price:       3500,
			Tags:        []string{"Machine Learning", "Python", "AI"},
			Image:       "https://images.unsplash.com/photo-1555949963-aa79dcee981c",
			Requirements: []string{
				"Python for Data Science",
				"Linear algebra and probability basics",
			},
		},
	}
}
