package domain

import (
	"strings"

	"siapkit/internal/platform/slug"
)

// Dataset column headers.
const (
	ColName      = "Nome"
	ColAge       = "Idade"
	ColSex       = "Sexo"
	ColBirthDate = "DatadeNascimento"
	ColCPF       = "CPF"
	ColMother    = "NomedaMae"
	ColPhone     = "Fone"
	ColAddress   = "Endereço"
	ColCity      = "Cidade"
	ColPostCode  = "CEP"
	ColClass     = "Turma"
)

const (
	NamePlaceholder  = "Sem_Nome"
	ClassPlaceholder = "Sem_Turma"
	// State is printed on every receipt next to the city.
	State = "GO"
)

type Student struct {
	Name      string
	Age       string
	Sex       string
	BirthDate string
	CPF       string
	Mother    string
	Phone     string
	Address   string
	City      string
	PostCode  string
	Class     string
}

// StudentFromRow maps a header-keyed row to a Student; absent columns stay empty.
func StudentFromRow(row map[string]string) Student {
	return Student{
		Name:      row[ColName],
		Age:       row[ColAge],
		Sex:       row[ColSex],
		BirthDate: row[ColBirthDate],
		CPF:       row[ColCPF],
		Mother:    row[ColMother],
		Phone:     row[ColPhone],
		Address:   row[ColAddress],
		City:      row[ColCity],
		PostCode:  row[ColPostCode],
		Class:     row[ColClass],
	}
}

func (s Student) SafeName() string {
	return orPlaceholder(s.Name, NamePlaceholder)
}

func (s Student) SafeClass() string {
	return orPlaceholder(s.Class, ClassPlaceholder)
}

// OutputName is the receipt file name for s.
func (s Student) OutputName() string {
	return slug.Underscore(s.SafeClass()) + "_termo_de_entrega_" + slug.Underscore(s.SafeName()) + ".pdf"
}

func orPlaceholder(value, placeholder string) string {
	if strings.TrimSpace(value) == "" {
		return placeholder
	}
	return value
}
