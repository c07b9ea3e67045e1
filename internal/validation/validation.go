// Package validation checks submitted form fields against a schema and
// produces ordered, human-readable (pt-BR) error messages. It has no
// side effects; an empty result means the input is valid.
package validation

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Rule ties one form field to a validator tag, e.g. "required,min=2".
type Rule struct {
	Field string
	Label string
	Tag   string
}

type Schema []Rule

// Canonical schemas for the three forms.

var RegisterSchema = Schema{
	{Field: "nome", Label: "Nome", Tag: "required"},
	{Field: "email", Label: "E-mail", Tag: "required,email"},
	{Field: "senha", Label: "Senha", Tag: "required,min=4"},
}

var CategorySchema = Schema{
	{Field: "nome", Label: "Nome", Tag: "required,min=2"},
	{Field: "slug", Label: "Slug", Tag: "required,min=2"},
}

var PostSchema = Schema{
	{Field: "titulo", Label: "Título", Tag: "required,min=3"},
	{Field: "slug", Label: "Slug", Tag: "required,min=3"},
	{Field: "descricao", Label: "Descrição", Tag: "required,min=5"},
	{Field: "conteudo", Label: "Conteúdo", Tag: "required,min=10"},
}

// Check runs every rule of the schema against the field map, in schema
// order. Whitespace-only values count as absent.
func Check(fields map[string]string, schema Schema) []string {
	var msgs []string

	for _, rule := range schema {
		value := strings.TrimSpace(fields[rule.Field])

		err := validate.Var(value, rule.Tag)

		if err == nil {
			continue
		}

		var verrs validator.ValidationErrors

		if !errors.As(err, &verrs) || len(verrs) == 0 {
			msgs = append(msgs, rule.Label+" inválido")
			continue
		}

		// report only the first failed tag per field
		msgs = append(msgs, message(rule.Label, verrs[0].Tag(), verrs[0].Param()))
	}

	return msgs
}

// CheckConfirmation verifies that a confirmation field equals its
// primary field (senha/senha2).
func CheckConfirmation(primary, confirm string) []string {
	err := validate.VarWithValue(confirm, primary, "eqfield")

	if err != nil {
		return []string{"As senhas não coincidem"}
	}

	return nil
}

func message(label, tag, param string) string {
	switch tag {
	case "required":
		return label + " inválido"
	case "email":
		return label + " inválido"
	case "min":
		return label + " muito curto (mínimo de " + param + " caracteres)"
	case "max":
		return label + " muito longo (máximo de " + param + " caracteres)"
	default:
		return label + " inválido"
	}
}
