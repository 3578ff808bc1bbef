package catalog

var agreement = []string{"Strongly Disagree", "Disagree", "Neutral", "Agree", "Strongly Agree"}

var comfort = []string{"Very Uncomfortable", "Uncomfortable", "Neutral", "Comfortable", "Very Comfortable"}

func likert(labels []string) *Scale {
	return &Scale{Min: 1, Max: 5, Labels: labels}
}

var compliancePsychometric = []Question{
	{ID: "p1", Type: TypeLikert, Category: CategoryPsychometric, Subcategory: "conscientiousness",
		Text: "I prefer roles where processes must be followed precisely.", Scale: likert(agreement), Weight: 1.2},
	{ID: "p2", Type: TypeLikert, Category: CategoryPsychometric, Subcategory: "detail_orientation",
		Text: "I enjoy organizing and double-checking detailed records.", Scale: likert(agreement), Weight: 1.3},
	{ID: "p3", Type: TypeLikert, Category: CategoryPsychometric, Subcategory: "assertiveness",
		Text: "I feel confident confronting colleagues who are non-compliant.", Scale: likert(agreement), Weight: 1.1},
	{ID: "p4", Type: TypeLikert, Category: CategoryPsychometric, Subcategory: "stress_tolerance",
		Text: "I stay calm and focused when I have to verify large amounts of data.", Scale: likert(agreement), Weight: 1.2},
	{ID: "p5", Type: TypeLikert, Category: CategoryPsychometric, Subcategory: "persistence",
		Text: "I complete tasks even when they become repetitive or difficult.", Scale: likert(agreement), Weight: 1.4},
	{ID: "p6", Type: TypeLikert, Category: CategoryPsychometric, Subcategory: "ethical_reasoning",
		Text: "I believe following rules and regulations is essential even when inconvenient.", Scale: likert(agreement), Weight: 1.5},
	{ID: "p7", Type: TypeLikert, Category: CategoryPsychometric, Subcategory: "structure_preference",
		Text: "I prefer structured environments with clear guidelines over creative freedom.", Scale: likert(agreement), Weight: 1.1},
	{ID: "p8", Type: TypeLikert, Category: CategoryPsychometric, Subcategory: "analytical_thinking",
		Text: "I enjoy analyzing patterns and inconsistencies in data or processes.", Scale: likert(agreement), Weight: 1.3},
}

var complianceTechnical = []Question{
	{ID: "t1", Type: TypeMultipleChoice, Category: CategoryTechnical, Subcategory: "documentation",
		Text: "Which document should be reviewed during a compliance audit for vendor onboarding?",
		Options: []string{
			"Vendor contract and security questionnaire",
			"Marketing materials only",
			"Employee handbook",
			"Financial statements only",
		}, Weight: 1.0},
	{ID: "t2", Type: TypeMultipleChoice, Category: CategoryTechnical, Subcategory: "data_security",
		Text: "What does non-compliance in data security usually result in?",
		Options: []string{
			"Regulatory fines and reputational damage",
			"Increased productivity",
			"Better customer relationships",
			"Lower operational costs",
		}, Weight: 1.2},
	{ID: "t3", Type: TypeMultipleChoice, Category: CategoryTechnical, Subcategory: "reporting",
		Text: "Choose the correct order of compliance reporting steps:",
		Options: []string{
			"Data collection → Analysis → Documentation → Review → Submission",
			"Submission → Data collection → Analysis → Documentation",
			"Review → Submission → Data collection → Analysis",
			"Documentation → Data collection → Submission → Analysis",
		}, Weight: 1.1},
	{ID: "t4", Type: TypeMultipleChoice, Category: CategoryTechnical, Subcategory: "regulations",
		Text: "GDPR primarily focuses on:",
		Options: []string{
			"Data protection and privacy rights",
			"Financial reporting standards",
			"Environmental compliance",
			"Workplace safety regulations",
		}, Weight: 1.3},
	{ID: "t5", Type: TypeMultipleChoice, Category: CategoryTechnical, Subcategory: "risk_assessment",
		Text: "In compliance tracking, what is the first step when a potential violation is identified?",
		Options: []string{
			"Document the incident and assess severity",
			"Immediately report to authorities",
			"Ignore if minor",
			"Wait for additional incidents",
		}, Weight: 1.2},
	{ID: "t6", Type: TypeLikert, Category: CategoryTechnical, Subcategory: "systems_familiarity",
		Text: "Rate your comfort level with compliance management software and database systems.", Scale: likert(comfort), Weight: 1.0},
}

var complianceWiscar = []Question{
	{ID: "w1", Type: TypeLikert, Category: CategoryWiscar, Subcategory: SubWill,
		Text: "I am determined to succeed in compliance-related work, even if it requires extra effort.", Scale: likert(agreement), Weight: 1.0},
	{ID: "i1", Type: TypeLikert, Category: CategoryWiscar, Subcategory: SubInterest,
		Text: "I am interested in jobs involving documentation and quality control.", Scale: likert(agreement), Weight: 1.0},
	{ID: "s1", Type: TypeLikert, Category: CategoryWiscar, Subcategory: SubSkill,
		Text: "Rate your comfort with working inside structured systems and following detailed procedures.", Scale: likert(comfort), Weight: 1.0},
	{ID: "c1", Type: TypeScenario, Category: CategoryWiscar, Subcategory: SubCognitive,
		Text: "You notice inconsistencies in a compliance report. What would you do first?",
		Options: []string{
			"Cross-reference with source documents to verify accuracy",
			"Report the inconsistencies immediately without investigation",
			"Assume it's a minor error and ignore it",
			"Ask someone else to handle it",
		}, Weight: 1.0},
	{ID: "a1", Type: TypeLikert, Category: CategoryWiscar, Subcategory: SubAbility,
		Text: "I see mistakes as opportunities to improve processes and prevent future issues.", Scale: likert(agreement), Weight: 1.0},
	{ID: "r1", Type: TypeScenario, Category: CategoryWiscar, Subcategory: SubRealWorld,
		Text: "A department head asks you to overlook a minor compliance issue to meet a deadline. How do you respond?",
		Options: []string{
			"Explain the importance of compliance and suggest alternative solutions",
			"Immediately agree to avoid conflict",
			"Report the request to higher management without discussion",
			"Compromise by partially overlooking the issue",
		}, Weight: 1.0},
}

// complianceAnswers keys each choice question to its correct option.
var complianceAnswers = map[string]string{
	"t1": "Vendor contract and security questionnaire",
	"t2": "Regulatory fines and reputational damage",
	"t3": "Data collection → Analysis → Documentation → Review → Submission",
	"t4": "Data protection and privacy rights",
	"t5": "Document the incident and assess severity",
	"c1": "Cross-reference with source documents to verify accuracy",
	"r1": "Explain the importance of compliance and suggest alternative solutions",
}

var defaultCatalog = New(compliancePsychometric, complianceTechnical, complianceWiscar, complianceAnswers)

// Default returns the built-in Compliance Tracker battery.
func Default() *Catalog {
	return defaultCatalog
}
