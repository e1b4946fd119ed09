package taxonomy

// BusinessCategories is the canonical interest vocabulary offered to
// business profiles.
var BusinessCategories = []string{
	"SaaS", "Fintech", "Insurtech", "AI/ML", "IoT", "Cybersecurity",
	"Mobility", "Healthtech", "Cleantech", "Manufacturing", "Logistics",
	"Data Security", "Cloud Infrastructure", "Enterprise Software",
	"Digital Transformation", "Workflow Automation", "Supply Chain",
	"Risk Analysis", "Sustainability",
}

// Cluster ids of the built-in taxonomy.
const (
	DigitalTransformation = "digital-transformation"
	FinancialInnovation   = "financial-innovation"
	Industry4             = "industry-4"
	SustainableTech       = "sustainable-tech"
	HealthWellbeing       = "health-wellbeing"
)

var defaultTaxonomy = MustNew([]Cluster{
	{
		ID:                 DigitalTransformation,
		Name:               "Digital Transformation",
		Categories:         []string{"SaaS", "AI/ML", "IoT", "Digital Transformation", "Enterprise Software", "Cloud Infrastructure"},
		Description:        "Businesses focused on digitizing traditional processes and operations",
		Icon:               "cpu",
		CompatibleClusters: []string{Industry4},
		KeyBenefits: []string{
			"Technology knowledge sharing",
			"Digital infrastructure synergies",
			"Innovation cross-pollination",
		},
		AmenityKeywords: []string{"internet", "tech"},
	},
	{
		ID:                 FinancialInnovation,
		Name:               "Financial Innovation",
		Categories:         []string{"Fintech", "Insurtech", "Cybersecurity", "Risk Analysis", "Data Security"},
		Description:        "Companies revolutionizing financial services and security",
		Icon:               "chart-bar",
		CompatibleClusters: []string{DigitalTransformation},
		KeyBenefits: []string{
			"Regulatory knowledge sharing",
			"Fintech ecosystem connections",
			"Compliance expertise access",
		},
		AmenityKeywords: []string{"secure", "meeting"},
	},
	{
		ID:                 Industry4,
		Name:               "Industry 4.0",
		Categories:         []string{"IoT", "Manufacturing", "Logistics", "AI/ML", "Supply Chain", "Workflow Automation"},
		Description:        "Next-generation industrial technologies and smart manufacturing",
		Icon:               "cog",
		CompatibleClusters: []string{DigitalTransformation, SustainableTech},
		KeyBenefits: []string{
			"Manufacturing expertise access",
			"Industrial partnership opportunities",
			"Supply chain integration potential",
		},
		AmenityKeywords: []string{"workshop", "tools"},
	},
	{
		ID:                 SustainableTech,
		Name:               "Sustainable Tech",
		Categories:         []string{"Cleantech", "Mobility", "IoT", "Sustainability"},
		Description:        "Technologies addressing sustainability challenges",
		Icon:               "leaf",
		CompatibleClusters: []string{Industry4, HealthWellbeing},
		KeyBenefits: []string{
			"Sustainability initiative collaboration",
			"Green technology synergies",
			"ESG-focused partnership potential",
		},
	},
	{
		ID:                 HealthWellbeing,
		Name:               "Health & Wellbeing",
		Categories:         []string{"Healthtech", "AI/ML", "IoT", "Data Security"},
		Description:        "Technologies improving healthcare and wellness",
		Icon:               "heart",
		CompatibleClusters: []string{DigitalTransformation, SustainableTech},
		KeyBenefits: []string{
			"Healthcare regulatory knowledge",
			"Wellness technology integration",
			"Health innovation ecosystem access",
		},
	},
})

// Default returns the built-in five-cluster taxonomy.
func Default() *Taxonomy { return defaultTaxonomy }
