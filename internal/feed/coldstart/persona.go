// OpportunityFeed - Personalized Feed Mixing and Cold-Start Recommendations
// Copyright 2026 The OpportunityFeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/athenahq/opportunityfeed

package coldstart

import (
	"sort"
	"strings"
)

// DefaultPersona is assumed for users who have not picked one yet.
const DefaultPersona = "EARLY_CAREER"

// PersonaDefaults holds the demographic priors for one persona: what a
// typical member is interested in and which skills they should build.
type PersonaDefaults struct {
	Interests         []string
	RecommendedSkills []string
	ContentTypes      []string
}

var personaDefaults = map[string]PersonaDefaults{
	"EARLY_CAREER": {
		Interests:         []string{"career development", "networking", "skill building", "interview tips"},
		RecommendedSkills: []string{"Communication", "Problem Solving", "Time Management", "Teamwork"},
		ContentTypes:      []string{"educational", "career_tips", "success_stories"},
	},
	"MID_CAREER": {
		Interests:         []string{"leadership", "work-life balance", "salary negotiation", "career transition"},
		RecommendedSkills: []string{"Leadership", "Project Management", "Strategic Thinking", "Mentoring"},
		ContentTypes:      []string{"industry_insights", "leadership", "professional_development"},
	},
	"ENTREPRENEUR": {
		Interests:         []string{"startup", "funding", "business growth", "networking"},
		RecommendedSkills: []string{"Business Development", "Financial Management", "Marketing", "Sales"},
		ContentTypes:      []string{"entrepreneurship", "funding", "business_tips"},
	},
	"CREATOR": {
		Interests:         []string{"content creation", "personal branding", "monetization", "audience growth"},
		RecommendedSkills: []string{"Content Strategy", "Video Production", "Social Media", "Storytelling"},
		ContentTypes:      []string{"creator_tips", "monetization", "platform_growth"},
	},
	"MENTOR": {
		Interests:         []string{"coaching", "leadership", "giving back", "professional development"},
		RecommendedSkills: []string{"Coaching", "Active Listening", "Goal Setting", "Feedback"},
		ContentTypes:      []string{"mentorship", "coaching", "leadership"},
	},
	"EDUCATION_PROVIDER": {
		Interests:         []string{"curriculum design", "online learning", "student engagement", "EdTech"},
		RecommendedSkills: []string{"Instructional Design", "Assessment", "E-learning", "Facilitation"},
		ContentTypes:      []string{"education", "teaching", "EdTech"},
	},
	"EMPLOYER": {
		Interests:         []string{"talent acquisition", "employer branding", "diversity hiring", "retention"},
		RecommendedSkills: []string{"Recruiting", "Employer Branding", "Interview Skills", "DEI"},
		ContentTypes:      []string{"recruiting", "talent", "workplace_culture"},
	},
	"REAL_ESTATE": {
		Interests:         []string{"property investment", "market trends", "housing", "commercial real estate"},
		RecommendedSkills: []string{"Market Analysis", "Negotiation", "Property Management", "Investment"},
		ContentTypes:      []string{"real_estate", "investment", "market_trends"},
	},
	"GOVERNMENT_NGO": {
		Interests:         []string{"social impact", "policy", "community development", "nonprofit management"},
		RecommendedSkills: []string{"Grant Writing", "Policy Analysis", "Community Engagement", "Program Management"},
		ContentTypes:      []string{"social_impact", "policy", "community"},
	},
}

// DefaultsFor returns the demographic priors for a persona, falling back
// to DefaultPersona for unknown or empty values.
func DefaultsFor(persona string) PersonaDefaults {
	if d, ok := personaDefaults[persona]; ok {
		return d
	}
	return personaDefaults[DefaultPersona]
}

// Personas lists the known persona identifiers in sorted order.
func Personas() []string {
	out := make([]string, 0, len(personaDefaults))
	for p := range personaDefaults {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// personaLabel turns "EARLY_CAREER" into "early career" for display text.
func personaLabel(persona string) string {
	return strings.ReplaceAll(strings.ToLower(persona), "_", " ")
}
