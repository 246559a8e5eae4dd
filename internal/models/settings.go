package models

import (
	"encoding/json"
	"fmt"
	"math"
)

// SettingsKey is the storage key the settings record lives under.
// It must not change without a migration step.
const SettingsKey = "settings"

// DefaultFontSize is the card font size used when nothing was saved
const DefaultFontSize = 20

// Card field names, as persisted inside scrumCard
const (
	FieldIssueType                 = "issueType"
	FieldIssueKey                  = "issueKey"
	FieldParentName                = "parentName"
	FieldParentKey                 = "parentKey"
	FieldIssuePriority             = "issuePriority"
	FieldIssueFixVersions          = "issueFixVersions"
	FieldIssueSummary              = "issueSummary"
	FieldIssueDescription          = "issueDescription"
	FieldIssueAssignee             = "issueAssignee"
	FieldIssueTimeOriginalEstimate = "issueTimeOriginalEstimate"
)

// FieldNames lists every card field in render order
var FieldNames = []string{
	FieldIssueType,
	FieldIssueKey,
	FieldParentKey,
	FieldParentName,
	FieldIssuePriority,
	FieldIssueFixVersions,
	FieldIssueSummary,
	FieldIssueDescription,
	FieldIssueAssignee,
	FieldIssueTimeOriginalEstimate,
}

// SettingsRecord is the persisted configuration blob
type SettingsRecord struct {
	JiraURL             string       `json:"jiraURL"`
	JiraProject         string       `json:"jiraProject"`
	JiraProjectName     string       `json:"jiraProjectName"`
	IsAJAXtoGreenHopper bool         `json:"isAJAXtoGreenHopper"`
	ScrumCard           CardSettings `json:"scrumCard"`
}

// FieldStyle controls how one card field is rendered
type FieldStyle struct {
	IsBold    bool `json:"isBold"`
	IsVisible bool `json:"isVisible"`
}

// CardSettings describes the appearance of every scrum card
type CardSettings struct {
	FontSize                  int        `json:"fontSize"`
	IssueType                 FieldStyle `json:"issueType"`
	IssueKey                  FieldStyle `json:"issueKey"`
	ParentName                FieldStyle `json:"parentName"`
	ParentKey                 FieldStyle `json:"parentKey"`
	IssuePriority             FieldStyle `json:"issuePriority"`
	IssueFixVersions          FieldStyle `json:"issueFixVersions"`
	IssueSummary              FieldStyle `json:"issueSummary"`
	IssueDescription          FieldStyle `json:"issueDescription"`
	IssueAssignee             FieldStyle `json:"issueAssignee"`
	IssueTimeOriginalEstimate FieldStyle `json:"issueTimeOriginalEstimate"`
}

// DefaultCardSettings returns the appearance used before anything is saved
func DefaultCardSettings() CardSettings {
	shown := FieldStyle{IsBold: false, IsVisible: true}
	hidden := FieldStyle{IsBold: false, IsVisible: false}

	return CardSettings{
		FontSize:                  DefaultFontSize,
		IssueType:                 shown,
		IssueKey:                  shown,
		ParentName:                shown,
		ParentKey:                 shown,
		IssuePriority:             shown,
		IssueFixVersions:          shown,
		IssueSummary:              FieldStyle{IsBold: true, IsVisible: true},
		IssueDescription:          hidden,
		IssueAssignee:             shown,
		IssueTimeOriginalEstimate: hidden,
	}
}

// Field returns a pointer to the named field style, or nil for an unknown name
func (c *CardSettings) Field(name string) *FieldStyle {
	switch name {
	case FieldIssueType:
		return &c.IssueType
	case FieldIssueKey:
		return &c.IssueKey
	case FieldParentName:
		return &c.ParentName
	case FieldParentKey:
		return &c.ParentKey
	case FieldIssuePriority:
		return &c.IssuePriority
	case FieldIssueFixVersions:
		return &c.IssueFixVersions
	case FieldIssueSummary:
		return &c.IssueSummary
	case FieldIssueDescription:
		return &c.IssueDescription
	case FieldIssueAssignee:
		return &c.IssueAssignee
	case FieldIssueTimeOriginalEstimate:
		return &c.IssueTimeOriginalEstimate
	}
	return nil
}

// Style returns the named field style by value
func (c CardSettings) Style(name string) FieldStyle {
	if f := c.Field(name); f != nil {
		return *f
	}
	return FieldStyle{}
}

// storedFieldStyle mirrors FieldStyle with optional members so that
// missing keys in an old record can be told apart from false.
type storedFieldStyle struct {
	IsBold    *bool `json:"isBold"`
	IsVisible *bool `json:"isVisible"`
}

type storedCardSettings struct {
	FontSize *float64                     `json:"fontSize"`
	Fields   map[string]*storedFieldStyle `json:"-"`
}

func (s *storedCardSettings) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	s.Fields = make(map[string]*storedFieldStyle)
	for key, value := range raw {
		if key == "fontSize" {
			if err := json.Unmarshal(value, &s.FontSize); err != nil {
				return fmt.Errorf("fontSize: %w", err)
			}
			continue
		}
		var style *storedFieldStyle
		if err := json.Unmarshal(value, &style); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		s.Fields[key] = style
	}
	return nil
}

type storedSettingsRecord struct {
	JiraURL             string              `json:"jiraURL"`
	JiraProject         string              `json:"jiraProject"`
	JiraProjectName     string              `json:"jiraProjectName"`
	IsAJAXtoGreenHopper bool                `json:"isAJAXtoGreenHopper"`
	ScrumCard           *storedCardSettings `json:"scrumCard"`
}

// DecodeSettingsRecord parses a persisted record. Every card field is rebuilt
// explicitly; members absent from the stored data take their default value and
// are reported in missing as "field" or "field.member".
func DecodeSettingsRecord(data []byte) (record SettingsRecord, missing []string, err error) {
	var stored storedSettingsRecord
	if err := json.Unmarshal(data, &stored); err != nil {
		return SettingsRecord{}, nil, fmt.Errorf("failed to decode settings record: %w", err)
	}

	record = SettingsRecord{
		JiraURL:             stored.JiraURL,
		JiraProject:         stored.JiraProject,
		JiraProjectName:     stored.JiraProjectName,
		IsAJAXtoGreenHopper: stored.IsAJAXtoGreenHopper,
		ScrumCard:           DefaultCardSettings(),
	}

	if stored.ScrumCard == nil {
		return record, []string{"scrumCard"}, nil
	}

	if stored.ScrumCard.FontSize != nil {
		record.ScrumCard.FontSize = int(math.Round(*stored.ScrumCard.FontSize))
	} else {
		missing = append(missing, "fontSize")
	}

	for _, name := range FieldNames {
		target := record.ScrumCard.Field(name)
		style := stored.ScrumCard.Fields[name]
		if style == nil {
			missing = append(missing, name)
			continue
		}
		if style.IsBold != nil {
			target.IsBold = *style.IsBold
		} else {
			missing = append(missing, name+".isBold")
		}
		if style.IsVisible != nil {
			target.IsVisible = *style.IsVisible
		} else {
			missing = append(missing, name+".isVisible")
		}
	}

	return record, missing, nil
}

// Encode serializes the record for storage
func (r SettingsRecord) Encode() ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to encode settings record: %w", err)
	}
	return data, nil
}
