package svd

import (
	"encoding/xml"
	"strconv"
	"strings"
)

// Integer is an SVD scalar. SVD files write numbers in decimal or with a
// 0x/0X prefix in hexadecimal.
type Integer int64

func parseInteger(v string) (Integer, error) {
	v = strings.TrimSpace(v)
	base := 10
	if strings.HasPrefix(v, "0x") || strings.HasPrefix(v, "0X") {
		v = v[2:]
		base = 16
	}
	value, err := strconv.ParseInt(v, base, 64)
	if err != nil {
		return 0, err
	}
	return Integer(value), nil
}

func (i *Integer) UnmarshalXML(d *xml.Decoder, start xml.StartElement) (err error) {
	var v string
	if err = d.DecodeElement(&v, &start); err != nil {
		return err
	}
	*i, err = parseInteger(v)
	return err
}

func (i *Integer) UnmarshalXMLAttr(attr xml.Attr) (err error) {
	*i, err = parseInteger(attr.Value)
	return err
}
