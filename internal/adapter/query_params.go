// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/MKhiriev/go-sync-store/internal/errs"
	"github.com/MKhiriev/go-sync-store/models"
)

// EncodeQuery renders q as URL parameters: query, sort, fields, skip and
// limit. A nil query yields no parameters.
func EncodeQuery(q *models.Query) (map[string]string, error) {
	params := make(map[string]string)
	if q == nil {
		return params, nil
	}

	if len(q.Filter) > 0 {
		data, err := json.Marshal(q.Filter)
		if err != nil {
			return nil, errs.Wrap(errs.KindKinvey, err, "query filter is not serializable")
		}
		params["query"] = string(data)
	}
	if len(q.Sort) > 0 {
		params["sort"] = encodeSort(q.Sort)
	}
	if len(q.Fields) > 0 {
		params["fields"] = strings.Join(q.Fields, ",")
	}
	if q.Skip > 0 {
		params["skip"] = strconv.Itoa(q.Skip)
	}
	if q.Limit > 0 {
		params["limit"] = strconv.Itoa(q.Limit)
	}
	return params, nil
}

// encodeSort writes {"field":1,"other":-1} keeping the field order.
func encodeSort(fields []models.SortField) string {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, _ := json.Marshal(f.Field)
		buf.Write(name)
		if f.Descending {
			buf.WriteString(":-1")
		} else {
			buf.WriteString(":1")
		}
	}
	buf.WriteByte('}')
	return buf.String()
}

// DecodeQuery parses URL parameters produced by [EncodeQuery].
func DecodeQuery(params map[string]string) (*models.Query, error) {
	q := &models.Query{}

	if raw := params["query"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &q.Filter); err != nil {
			return nil, errs.Wrap(errs.KindKinvey, err, "invalid query parameter")
		}
	}
	if raw := params["sort"]; raw != "" {
		sort, err := decodeSort(raw)
		if err != nil {
			return nil, err
		}
		q.Sort = sort
	}
	if raw := params["fields"]; raw != "" {
		q.Fields = strings.Split(raw, ",")
	}

	var err error
	if q.Skip, err = intParam(params, "skip"); err != nil {
		return nil, err
	}
	if q.Limit, err = intParam(params, "limit"); err != nil {
		return nil, err
	}
	return q, nil
}

func intParam(params map[string]string, name string) (int, error) {
	raw := params[name]
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, errs.Newf(errs.KindParameterValueOutOfRange, "%s must be a non-negative integer", name)
	}
	return v, nil
}

// decodeSort reads the sort object token by token so field order survives.
func decodeSort(raw string) ([]models.SortField, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	invalid := errs.New(errs.KindKinvey, "invalid sort parameter")

	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil, invalid
	}

	var fields []models.SortField
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, invalid
		}
		name, ok := tok.(string)
		if !ok {
			return nil, invalid
		}
		var dir float64
		if err = dec.Decode(&dir); err != nil {
			return nil, invalid
		}
		fields = append(fields, models.SortField{Field: name, Descending: dir < 0})
	}
	return fields, nil
}
