package core

import "slices"

// Categories is the closed list of record categories offered by the entry form.
var Categories = []string{
	"Restaurantes",
	"Casa",
	"Mercado",
	"Carro",
	"Viagem",
	"Gatos",
	"Compras",
	"Saúde",
	"Esportes",
	"Entretenimento",
	"Presentes",
	"Transporte",
	"Reembolso",
	"Ateliê e oficina",
}

// PaymentMethods is the closed list of payment methods offered by the entry form.
var PaymentMethods = []string{
	"Pix Itaú",
	"Cartão XP",
	"Débito Itaú",
	"Dinheiro Vivo",
	"Manu emprestou",
	"Fernando emprestou",
}

func IsCategory(s string) bool {
	return slices.Contains(Categories, s)
}

func IsPaymentMethod(s string) bool {
	return slices.Contains(PaymentMethods, s)
}
