// Package i18n formats monetary and percentage values for the two supported
// locales. Language selection is explicit at every call site; there is no
// process-wide locale switch.
package i18n

import (
	"fmt"
	"strings"

	"fintrack/internal/core"
)

// Language tags the service understands. Anything else falls back to the
// default language.
const (
	LangPTBR = "pt-BR"
	LangENUS = "en-US"

	DefaultLanguage = LangENUS
)

type localeSpec struct {
	symbol       string
	symbolSpace  bool // space between symbol and number
	thousandsSep byte
	decimalSep   byte
}

var locales = map[string]localeSpec{
	LangPTBR: {symbol: "R$", symbolSpace: true, thousandsSep: '.', decimalSep: ','},
	LangENUS: {symbol: "$", symbolSpace: false, thousandsSep: ',', decimalSep: '.'},
}

func localeFor(lang string) localeSpec {
	if s, ok := locales[lang]; ok {
		return s
	}
	return locales[DefaultLanguage]
}

// FormatCurrency renders cents as a locale-correct currency string with two
// decimals, e.g. "R$ 1.234,56" for pt-BR and "$1,234.56" for en-US. The zero
// value formats as zero, never as an empty string.
func FormatCurrency(lang string, m core.Money) string {
	sp := localeFor(lang)
	cents := m.Cents
	neg := cents < 0
	if neg {
		cents = -cents
	}

	whole := cents / 100
	frac := cents % 100
	digits := fmt.Sprintf("%d", whole)

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(sp.symbol)
	if sp.symbolSpace {
		b.WriteByte(' ')
	}
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(sp.thousandsSep)
		}
		b.WriteRune(d)
	}
	b.WriteByte(sp.decimalSep)
	b.WriteString(fmt.Sprintf("%02d", frac))
	return b.String()
}

// ParseCurrency recovers cents from a string produced by FormatCurrency (or
// reasonable user input in the same locale). The inverse holds to the cent.
func ParseCurrency(lang string, s string) (core.Money, error) {
	sp := localeFor(lang)
	s = strings.TrimSpace(s)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	s = strings.TrimSpace(strings.TrimPrefix(s, sp.symbol))
	if s == "" {
		return core.Money{}, core.ErrInvalidAmount
	}

	s = strings.ReplaceAll(s, string(sp.thousandsSep), "")
	s = strings.ReplaceAll(s, string(sp.decimalSep), ".")

	cents, err := core.ParseDecimalToCents(s)
	if err != nil {
		return core.Money{}, err
	}
	if neg {
		cents = -cents
	}
	return core.Money{Cents: cents}, nil
}

// FormatPercent renders a percentage with exactly one decimal and a "%"
// suffix, e.g. "80.0%". Decimal separator is locale-independent to match the
// chart tooltips.
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}
