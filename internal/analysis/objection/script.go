package objection

import (
	"strings"

	"ai-call-readiness-service/internal/models"
)

// namePlaceholder is substituted with the customer name in scripted lines.
const namePlaceholder = "{name}"

// scriptTemplates holds the rebuttal dialogue templates. The table is
// intentionally partial: only the price and partner objections have scripts,
// and Script reports false for every other id.
var scriptTemplates = map[string]models.ObjectionScript{
	"price": {
		Title:       "The Cost Of Staying Stuck",
		DialTrigger: "loss aversion",
		TruthLevel:  8,
		MoneyStyle:  "reframe price as the cost of the unsolved problem",
		Steps: []models.ScriptStep{
			{Index: 1, Text: "{name}, I hear you - let me ask you something first.", PauseMs: 1500},
			{Index: 2, Text: "You told me earlier what this problem costs you every single month. What's that number again?", Note: "let them say the number out loud"},
			{Index: 3, Text: "So in twelve months of doing nothing, you've already paid more than this - just without getting anything for it.", PauseMs: 2000},
			{Index: 4, Text: "The question isn't whether you can afford to do this, {name}. It's whether you can afford to keep paying for the problem.", Note: "silence until they respond"},
		},
	},
	"partner": {
		Title:       "The Partner Conversation",
		DialTrigger: "authority restoration",
		TruthLevel:  7,
		MoneyStyle:  "separate the decision from the permission",
		Steps: []models.ScriptStep{
			{Index: 1, Text: "Totally fair, {name} - important decisions deserve that conversation.", PauseMs: 1000},
			{Index: 2, Text: "Let me ask: if your partner says 'do whatever you think is right' - what would you decide?", Note: "this reveals whether the partner is the real objection"},
			{Index: 3, Text: "So the real question isn't what they think. It's what you already know.", PauseMs: 2000},
			{Index: 4, Text: "What would you need to walk into that conversation already sure of your answer, {name}?"},
		},
	},
}

// Script returns the rebuttal script for the objection id with the customer
// name substituted in. The second return is false when no template exists
// for the id.
func Script(objectionID, customerName string) (models.ObjectionScript, bool) {
	tmpl, ok := scriptTemplates[objectionID]
	if !ok {
		return models.ObjectionScript{}, false
	}

	script := models.ObjectionScript{
		Title:       tmpl.Title,
		DialTrigger: tmpl.DialTrigger,
		TruthLevel:  tmpl.TruthLevel,
		MoneyStyle:  tmpl.MoneyStyle,
		Steps:       make([]models.ScriptStep, len(tmpl.Steps)),
	}
	for i, step := range tmpl.Steps {
		step.Text = strings.ReplaceAll(step.Text, namePlaceholder, customerName)
		script.Steps[i] = step
	}
	return script, true
}
