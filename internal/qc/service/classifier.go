package service

import (
	"strings"

	"github.com/Odiway/battrack/internal/qc/entity"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Defect classification is a pure keyword lookup over the question text.
// Both tables are ordered and first match wins; the keyword sets overlap
// (e.g. "elektrik" sits in category rule 3 and severity rule 2), so the
// order below must not be rearranged.

type categoryRule struct {
	keywords    []string
	category    string
	subcategory string
}

var categoryRules = []categoryRule{
	{[]string{"görsel", "çizik", "darbe", "çatlak", "deformasyon"}, "GÖRSEL KONTROL", "Yüzey Hasarı"},
	{[]string{"montaj", "civata", "vida", "sıkma", "tork"}, "MONTAJ KONTROL", "Mekanik Bağlantı"},
	{[]string{"elektrik", "voltaj", "sensör", "kablo", "bağlantı"}, "ELEKTRİKSEL KONTROL", "Elektrik Sistemi"},
	{[]string{"test", "ölçüm", "basınç", "sızdırmazlık"}, "TEST KONTROL", "Performans Testi"},
	{[]string{"etiket", "barkod", "kod", "seri"}, "ÜRÜN KOD KONTROL", "İzlenebilirlik"},
	{[]string{"soğutma", "termal", "sıcaklık"}, "TERMAL KONTROL", "Soğutma Sistemi"},
	{[]string{"bms", "bmu", "bcu"}, "BMS KONTROL", "Batarya Yönetimi"},
	{[]string{"modül", "hücre", "cell"}, "MODÜL KONTROL", "Batarya Modülü"},
}

// CategoryGeneral is the fallback when no keyword matches.
const CategoryGeneral = "GENEL KONTROL"

type severityRule struct {
	keywords []string
	severity string
}

var severityRules = []severityRule{
	{[]string{"güvenlik", "izolasyon", "kısa devre", "yangın"}, entity.SeverityCritical},
	{[]string{"elektrik", "voltaj", "bms", "sızdırmazlık"}, entity.SeverityHigh},
	{[]string{"montaj", "bağlantı", "tork"}, entity.SeverityMedium},
}

// negativeAnswers is the fixed rejection vocabulary. Anything else,
// including free text and numbers, counts as non-negative.
var negativeAnswers = map[string]struct{}{
	"no":     {},
	"hayır":  {},
	"hayir":  {},
	"false":  {},
	"red":    {},
	"reject": {},
}

// turkishLower folds with Turkish casing rules so dotted/dotless I in the
// question text and answers lowercases correctly (İ→i, I→ı).
var turkishLower = cases.Lower(language.Turkish)

// ClassifyCategory maps question text to a defect category and subcategory.
// Subcategory is empty for the general fallback.
func ClassifyCategory(questionText string) (string, string) {
	text := turkishLower.String(questionText)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.category, rule.subcategory
			}
		}
	}
	return CategoryGeneral, ""
}

// ClassifySeverity maps question text to a defect severity, defaulting LOW.
func ClassifySeverity(questionText string) string {
	text := turkishLower.String(questionText)
	for _, rule := range severityRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.severity
			}
		}
	}
	return entity.SeverityLow
}

// IsNegativeAnswer reports whether an answer value triggers a defect.
// The check is deliberately type-blind: a TEXT answer that happens to equal
// "red" classifies negative, matching the production behavior.
func IsNegativeAnswer(value string) bool {
	_, ok := negativeAnswers[turkishLower.String(strings.TrimSpace(value))]
	return ok
}
