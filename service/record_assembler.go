package service

import "github.com/Aashish23092/ocr-invoice-extraction/dto"

// AssembleRecords flattens an extraction result into summary rows. Every row
// carries all of dto.Columns(); the result is never empty.
func AssembleRecords(result *dto.InvoiceExtractionResult, policy dto.ExtractionPolicy) []dto.FlatRecord {
	if len(result.Services) == 0 {
		record := sharedRecord(result)
		record[dto.ColServiceCode] = dto.NoServicesMarker
		record[dto.ColDescription] = dto.NoServicesDetail
		record[dto.ColQuantity] = ""
		record[dto.ColUnitValue] = ""
		record[dto.ColSubtotalUSD] = ""
		return []dto.FlatRecord{record}
	}

	records := make([]dto.FlatRecord, 0, len(result.Services)+1)
	for _, svc := range result.Services {
		record := sharedRecord(result)
		record[dto.ColServiceCode] = svc.Code
		record[dto.ColDescription] = svc.Description
		record[dto.ColQuantity] = svc.Quantity
		record[dto.ColUnitValue] = svc.UnitValue
		record[dto.ColSubtotalUSD] = svc.SubtotalUSD
		records = append(records, record)
	}

	if policy.AppendSubtotalRow && result.HasSubtotal() {
		records = append(records, subtotalRecord(result.Subtotal))
	}

	return records
}

func sharedRecord(result *dto.InvoiceExtractionResult) dto.FlatRecord {
	record := make(dto.FlatRecord, len(dto.Columns()))
	for _, name := range dto.GeneralFields {
		record[name] = result.General.Get(name)
	}
	for _, name := range dto.TaxFields {
		record[name] = result.Taxes.Get(name)
	}
	return record
}

func subtotalRecord(subtotal string) dto.FlatRecord {
	record := make(dto.FlatRecord, len(dto.Columns()))
	for _, name := range dto.Columns() {
		record[name] = ""
	}
	record[dto.ColServiceCode] = dto.SubtotalMarker
	record[dto.ColDescription] = dto.SubtotalDescription
	record[dto.ColSubtotalUSD] = subtotal
	return record
}
