package assessment

// DefaultRuleset returns the built-in risk-weighting model. Thresholds
// are per serving and heuristic, not medical advice; deployments tune
// them through configuration overrides.
func DefaultRuleset() Ruleset {
	return Ruleset{
		ConditionRules: map[Condition][]NutrientRule{
			ConditionDiabetes: {
				{Nutrient: NutrientSugar, Threshold: 15, Severity: SeverityHigh, Weight: 25,
					Message: "very high sugar content"},
				{Nutrient: NutrientSugar, Threshold: 10, Severity: SeverityModerate, Weight: 15,
					Message: "high sugar content"},
			},
			ConditionHypertension: {
				{Nutrient: NutrientSodium, Threshold: 600, Severity: SeverityHigh, Weight: 25,
					Message: "very high sodium may raise blood pressure"},
				{Nutrient: NutrientSodium, Threshold: 300, Severity: SeverityModerate, Weight: 15,
					Message: "high sodium content"},
			},
			ConditionHighCholesterol: {
				{Nutrient: NutrientSaturatedFat, Threshold: 5, Severity: SeverityHigh, Weight: 20,
					Message: "high saturated fat may raise LDL cholesterol"},
				{Nutrient: NutrientFat, Threshold: 20, Severity: SeverityModerate, Weight: 10,
					Message: "high total fat content"},
			},
			ConditionPCOS: {
				{Nutrient: NutrientSugar, Threshold: 10, Severity: SeverityModerate, Weight: 15,
					Message: "high sugar may worsen insulin resistance"},
			},
			ConditionKidneyDisease: {
				{Nutrient: NutrientSodium, Threshold: 400, Severity: SeverityModerate, Weight: 15,
					Message: "sodium load strains impaired kidneys"},
				{Nutrient: NutrientProtein, Threshold: 30, Severity: SeverityModerate, Weight: 10,
					Message: "heavy protein load for impaired kidneys"},
			},
		},

		InteractionRules: map[Condition][]IngredientRule{
			ConditionDiabetes: {
				{Match: "sugar", FirstOnly: true, Severity: SeverityModerate, Weight: 12,
					Message: "sugar is the dominant ingredient"},
				{Match: "corn syrup", FirstOnly: true, Severity: SeverityModerate, Weight: 12,
					Message: "syrup is the dominant ingredient"},
			},
			ConditionHighCholesterol: {
				{Match: "partially hydrogenated", Severity: SeverityHigh, Weight: 18,
					Message: "trans fats raise LDL and heart disease risk"},
				{Match: "palm oil", Severity: SeverityModerate, Weight: 8,
					Message: "palm oil is high in saturated fat"},
			},
		},

		GoalRules: map[DietGoal][]NutrientRule{
			GoalWeightLoss: {
				{Nutrient: NutrientCalories, Threshold: 400, Severity: SeverityLow, Weight: 6,
					Message: "calorie-dense for a weight-loss goal"},
				{Nutrient: NutrientSugar, Threshold: 20, Severity: SeverityLow, Weight: 4,
					Message: "sugary foods slow fat loss"},
			},
		},

		AdditiveWeights: map[Severity]float64{
			SeverityNone:     0,
			SeverityLow:      4,
			SeverityModerate: 10,
			SeverityHigh:     18,
		},
		UnverifiedAdditiveWeight: 2,

		AdditiveScale: map[Condition]map[AdditiveClass]float64{
			ConditionHypertension: {
				AdditiveClassSodium: 1.5,
			},
			ConditionDiabetes: {
				AdditiveClassSweetener: 1.5,
			},
			ConditionKidneyDisease: {
				AdditiveClassSodium: 1.5,
			},
		},

		KnownAdditives: defaultKnownAdditives(),

		AllergenSynonyms: map[string][]string{
			"peanut":    {"peanuts", "groundnut", "arachis"},
			"milk":      {"whey", "casein", "lactose", "butter", "cream", "cheese", "yogurt"},
			"egg":       {"eggs", "albumin", "ovalbumin"},
			"gluten":    {"wheat", "barley", "rye", "malt", "spelt"},
			"soy":       {"soya", "soybean", "edamame"},
			"fish":      {"anchovy", "cod", "salmon", "tuna", "sardine"},
			"shellfish": {"shrimp", "prawn", "crab", "lobster", "oyster", "mussel"},
			"tree nut":  {"almond", "cashew", "walnut", "hazelnut", "pecan", "pistachio"},
			"sesame":    {"tahini", "sesame seed"},
		},
	}
}

// defaultKnownAdditives maps normalized additive names and E-codes to
// their class. Both forms are listed so either spelling on a label is
// recognized.
func defaultKnownAdditives() map[string]AdditiveClass {
	entries := []struct {
		code  string
		name  string
		class AdditiveClass
	}{
		{"e102", "tartrazine", AdditiveClassColorant},
		{"e110", "sunset yellow", AdditiveClassColorant},
		{"e129", "allura red", AdditiveClassColorant},
		{"e150d", "caramel color", AdditiveClassColorant},
		{"e211", "sodium benzoate", AdditiveClassSodium},
		{"e220", "sulfur dioxide", AdditiveClassPreservative},
		{"e250", "sodium nitrite", AdditiveClassSodium},
		{"e251", "sodium nitrate", AdditiveClassSodium},
		{"e300", "ascorbic acid", AdditiveClassAntioxidant},
		{"e320", "bha", AdditiveClassAntioxidant},
		{"e321", "bht", AdditiveClassAntioxidant},
		{"e322", "lecithin", AdditiveClassTexture},
		{"e330", "citric acid", AdditiveClassOther},
		{"e338", "phosphoric acid", AdditiveClassOther},
		{"e407", "carrageenan", AdditiveClassTexture},
		{"e440", "pectin", AdditiveClassTexture},
		{"e621", "monosodium glutamate", AdditiveClassSodium},
		{"", "aspartame", AdditiveClassSweetener},
		{"", "sucralose", AdditiveClassSweetener},
		{"", "saccharin", AdditiveClassSweetener},
		{"", "acesulfame potassium", AdditiveClassSweetener},
		{"", "high fructose corn syrup", AdditiveClassSweetener},
	}

	m := make(map[string]AdditiveClass, len(entries)*2)
	for _, e := range entries {
		if e.code != "" {
			m[e.code] = e.class
		}
		m[e.name] = e.class
	}
	return m
}
