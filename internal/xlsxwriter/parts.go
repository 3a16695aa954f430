package xlsxwriter

import (
	"bytes"
	"fmt"
	"time"

	"github.com/ginjaninja78/event-sales-export/internal/workbook"
)

// =============================================================================
// PACKAGE PARTS
// =============================================================================
//
// PACKAGE LAYOUT:
//
//   [Content_Types].xml
//   _rels/.rels
//   docProps/core.xml
//   docProps/app.xml
//   xl/workbook.xml
//   xl/_rels/workbook.xml.rels
//   xl/worksheets/sheet1.xml ... sheetN.xml
//   xl/styles.xml
//   xl/sharedStrings.xml          (empty: all strings are inline)

const (
	contentTypesPart  = "[Content_Types].xml"
	rootRelsPart      = "_rels/.rels"
	corePart          = "docProps/core.xml"
	appPart           = "docProps/app.xml"
	workbookPart      = "xl/workbook.xml"
	workbookRelsPart  = "xl/_rels/workbook.xml.rels"
	stylesPart        = "xl/styles.xml"
	sharedStringsPart = "xl/sharedStrings.xml"
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

const (
	nsMain          = "http://schemas.openxmlformats.org/spreadsheetml/2006/main"
	nsRelationships = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsPackageRels   = "http://schemas.openxmlformats.org/package/2006/relationships"

	relOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relCoreProps      = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	relExtendedProps  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties"
	relWorksheet      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet"
	relStyles         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	relSharedStrings  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/sharedStrings"
)

// applicationName is recorded in docProps/app.xml.
const applicationName = "Event Sales Export"

func sheetPart(n int) string {
	return fmt.Sprintf("xl/worksheets/sheet%d.xml", n)
}

func contentTypes(sheetCount int) []byte {
	var buffer bytes.Buffer

	buffer.WriteString(xmlHeader)
	buffer.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	buffer.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	buffer.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	buffer.WriteString(`<Override PartName="/xl/workbook.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"/>`)
	for i := 1; i <= sheetCount; i++ {
		buffer.WriteString(fmt.Sprintf(`<Override PartName="/%s" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.worksheet+xml"/>`, sheetPart(i)))
	}
	buffer.WriteString(`<Override PartName="/xl/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.styles+xml"/>`)
	buffer.WriteString(`<Override PartName="/xl/sharedStrings.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.sharedStrings+xml"/>`)
	buffer.WriteString(`<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>`)
	buffer.WriteString(`<Override PartName="/docProps/app.xml" ContentType="application/vnd.openxmlformats-officedocument.extended-properties+xml"/>`)
	buffer.WriteString(`</Types>`)

	return buffer.Bytes()
}

func rootRels() []byte {
	var buffer bytes.Buffer

	buffer.WriteString(xmlHeader)
	buffer.WriteString(fmt.Sprintf(`<Relationships xmlns="%s">`, nsPackageRels))
	buffer.WriteString(fmt.Sprintf(`<Relationship Id="rId1" Type="%s" Target="xl/workbook.xml"/>`, relOfficeDocument))
	buffer.WriteString(fmt.Sprintf(`<Relationship Id="rId2" Type="%s" Target="docProps/core.xml"/>`, relCoreProps))
	buffer.WriteString(fmt.Sprintf(`<Relationship Id="rId3" Type="%s" Target="docProps/app.xml"/>`, relExtendedProps))
	buffer.WriteString(`</Relationships>`)

	return buffer.Bytes()
}

func coreProps(wb *workbook.Workbook, now time.Time) []byte {
	created := wb.Created
	if created.IsZero() {
		created = now
	}
	stamp := created.UTC().Format(time.RFC3339)

	var buffer bytes.Buffer

	buffer.WriteString(xmlHeader)
	buffer.WriteString(`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties"`)
	buffer.WriteString(` xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/"`)
	buffer.WriteString(` xmlns:dcmitype="http://purl.org/dc/dcmitype/" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">`)
	if wb.Title != "" {
		buffer.WriteString(fmt.Sprintf(`<dc:title>%s</dc:title>`, escapeXML(wb.Title)))
	}
	if wb.Creator != "" {
		buffer.WriteString(fmt.Sprintf(`<dc:creator>%s</dc:creator>`, escapeXML(wb.Creator)))
		buffer.WriteString(fmt.Sprintf(`<cp:lastModifiedBy>%s</cp:lastModifiedBy>`, escapeXML(wb.Creator)))
	}
	buffer.WriteString(fmt.Sprintf(`<dcterms:created xsi:type="dcterms:W3CDTF">%s</dcterms:created>`, stamp))
	buffer.WriteString(fmt.Sprintf(`<dcterms:modified xsi:type="dcterms:W3CDTF">%s</dcterms:modified>`, stamp))
	buffer.WriteString(`</cp:coreProperties>`)

	return buffer.Bytes()
}

func appProps(wb *workbook.Workbook) []byte {
	var buffer bytes.Buffer

	buffer.WriteString(xmlHeader)
	buffer.WriteString(`<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties"`)
	buffer.WriteString(` xmlns:vt="http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes">`)
	buffer.WriteString(fmt.Sprintf(`<Application>%s</Application>`, applicationName))
	buffer.WriteString(fmt.Sprintf(`<TitlesOfParts><vt:vector size="%d" baseType="lpstr">`, len(wb.Sheets)))
	for _, ws := range wb.Sheets {
		buffer.WriteString(fmt.Sprintf(`<vt:lpstr>%s</vt:lpstr>`, escapeXML(ws.Name)))
	}
	buffer.WriteString(`</vt:vector></TitlesOfParts>`)
	buffer.WriteString(`</Properties>`)

	return buffer.Bytes()
}

func workbookXML(wb *workbook.Workbook) []byte {
	var buffer bytes.Buffer

	buffer.WriteString(xmlHeader)
	buffer.WriteString(fmt.Sprintf(`<workbook xmlns="%s" xmlns:r="%s">`, nsMain, nsRelationships))
	buffer.WriteString(`<bookViews><workbookView activeTab="0"/></bookViews>`)
	buffer.WriteString(`<sheets>`)
	for i, ws := range wb.Sheets {
		buffer.WriteString(fmt.Sprintf(`<sheet name="%s" sheetId="%d" r:id="rId%d"/>`, escapeXML(ws.Name), i+1, i+1))
	}
	buffer.WriteString(`</sheets>`)
	buffer.WriteString(`</workbook>`)

	return buffer.Bytes()
}

// workbookRels numbers sheets rId1..rIdN, then styles and shared strings.
func workbookRels(sheetCount int) []byte {
	var buffer bytes.Buffer

	buffer.WriteString(xmlHeader)
	buffer.WriteString(fmt.Sprintf(`<Relationships xmlns="%s">`, nsPackageRels))
	for i := 1; i <= sheetCount; i++ {
		buffer.WriteString(fmt.Sprintf(`<Relationship Id="rId%d" Type="%s" Target="worksheets/sheet%d.xml"/>`, i, relWorksheet, i))
	}
	buffer.WriteString(fmt.Sprintf(`<Relationship Id="rId%d" Type="%s" Target="styles.xml"/>`, sheetCount+1, relStyles))
	buffer.WriteString(fmt.Sprintf(`<Relationship Id="rId%d" Type="%s" Target="sharedStrings.xml"/>`, sheetCount+2, relSharedStrings))
	buffer.WriteString(`</Relationships>`)

	return buffer.Bytes()
}

func sharedStrings() []byte {
	return []byte(xmlHeader + `<sst xmlns="` + nsMain + `" count="0" uniqueCount="0"/>`)
}
