// Package sheets fetches and parses the published CSV exports of the
// connections and sales-funnel spreadsheets.
package sheets

import "strings"

// Header aliases per logical column. The spreadsheets have been renamed more
// than once, so each column is resolved by the first header that matches any
// alias, case-insensitively and by containment in either direction.
var (
	salesFunnelColumns = map[string][]string{
		"user_id":         {"имя ответственного", "user_id", "userid", "user", "id пользователя", "пользователь", "ответственный"},
		"invoice_number":  {"номер счета", "номер счёта", "invoice_id", "invoiceid", "id счета", "счет"},
		"sales_amount":    {"сумма продажи", "sales_amount", "amount", "invoice_amount"},
		"budget":          {"бюджет сделки", "бюджет", "budget", "бюджет_руб"},
		"purchase_amount": {"сумма закупки", "purchase_amount", "cost", "себестоимость"},
		"status_name":     {"имя статуса", "статус сделки", "status"},
		"date":            {"date", "invoice_date", "дата", "created_at"},
		"paid_date":       {"paid_date", "дата_оплаты", "дата завершения"},
	}

	connectionsColumns = map[string][]string{
		"user_id":      {"имя ответственного", "user_id", "userid", "user", "ответственный", "менеджер", "владелец", "id пользователя", "пользователь", "сотрудник"},
		"company_id":   {"company_id", "companyid", "company", "id компании", "компания", "id"},
		"company_name": {"название компании", "company_name", "companyname", "компания", "организация"},
		"contact_name": {"имена контактов", "contact_name", "contactname", "контакт", "contact", "контактное лицо", "фио"},
		"created_at":   {"created_at", "createdat", "дата", "дата создания"},
	}
)

// findColumnIndex resolves a logical column to a header position, -1 when no
// header matches. Exact matches win over containment: "Дата" must not steal
// the "Дата завершения" column.
func findColumnIndex(headers, variants []string) int {
	for i, h := range headers {
		h = strings.ToLower(strings.TrimSpace(h))
		if h == "" {
			continue
		}
		for _, v := range variants {
			if h == strings.ToLower(v) {
				return i
			}
		}
	}
	for i, h := range headers {
		h = strings.ToLower(strings.TrimSpace(h))
		if h == "" {
			continue
		}
		for _, v := range variants {
			v = strings.ToLower(v)
			if strings.Contains(h, v) || strings.Contains(v, h) {
				return i
			}
		}
	}
	return -1
}

// resolveColumns maps every logical column of a feed to its header index.
func resolveColumns(headers []string, columns map[string][]string) map[string]int {
	resolved := make(map[string]int, len(columns))
	for name, variants := range columns {
		resolved[name] = findColumnIndex(headers, variants)
	}
	return resolved
}
