package model

import (
	"bytes"
	"encoding/json"
	"sort"
)

// PeekCaseVersion is the canonical case-detail schema. Version 1 files used region/precio_clp.
const PeekCaseVersion = 2

// PeekCase is the clinical case detail stored in peekCase.json.
type PeekCase struct {
	IDCaso               string `json:"id_caso"`
	NombrePaciente       string `json:"nombre_paciente"`
	NombreDoctor         string `json:"nombre_doctor"`
	HospitalClinica      string `json:"hospital_clinica"`
	RegionAnatomica      string `json:"region_anatomica"`
	Complejidad          string `json:"complejidad"`
	Requerimiento        string `json:"requerimiento"`
	PrecioBase           int    `json:"precio_base"`
	PrecioFinal          int    `json:"precio_final"`
	IVAIncluido          bool   `json:"iva_incluido"`
	FechaCirugia         string `json:"fecha_cirugia"`
	HoraCirugia          string `json:"hora_cirugia"`
	FechaEntregaEstimada string `json:"fecha_entrega_estimada"`
	EstadoCaso           string `json:"estado_caso"`
	Notas                string `json:"notas"`
	CreadoEn             string `json:"creado_en"`
	ActualizadoEn        string `json:"actualizado_en"`

	// Extra holds keys outside the schema (link_dicom, nombre_paciente_dicom, ...).
	// They are written back unchanged.
	Extra map[string]json.RawMessage `json:"-"`

	// Migrated is set by UnmarshalJSON when v1 keys were rewritten or v2 keys were missing.
	Migrated bool `json:"-"`
}

// NewPeekCase returns a case with schema defaults.
func NewPeekCase() PeekCase {
	return PeekCase{IVAIncluido: true}
}

type peekCaseFields PeekCase

var peekCaseKeys = map[string]struct{}{
	"id_caso": {}, "nombre_paciente": {}, "nombre_doctor": {}, "hospital_clinica": {},
	"region_anatomica": {}, "complejidad": {}, "requerimiento": {}, "precio_base": {},
	"precio_final": {}, "iva_incluido": {}, "fecha_cirugia": {}, "hora_cirugia": {},
	"fecha_entrega_estimada": {}, "estado_caso": {}, "notas": {}, "creado_en": {},
	"actualizado_en": {},
}

// v1 key -> v2 keys it feeds.
var peekCaseV1Keys = map[string][]string{
	"region":           {"region_anatomica"},
	"precio_clp":       {"precio_base", "precio_final"},
	"especificaciones": {"requerimiento"},
}

func (c *PeekCase) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	migrated := false
	for old, targets := range peekCaseV1Keys {
		v, ok := raw[old]
		if !ok {
			continue
		}
		for _, k := range targets {
			if _, has := raw[k]; !has || isEmptyJSON(raw[k]) {
				raw[k] = v
			}
		}
		delete(raw, old)
		migrated = true
	}
	for k := range peekCaseKeys {
		if _, ok := raw[k]; !ok {
			migrated = true
		}
	}

	fields := peekCaseFields(NewPeekCase())
	known := map[string]json.RawMessage{}
	extra := map[string]json.RawMessage{}
	for k, v := range raw {
		if _, ok := peekCaseKeys[k]; ok {
			known[k] = v
			continue
		}
		extra[k] = v
	}
	kb, err := json.Marshal(known)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(kb, &fields); err != nil {
		return err
	}

	*c = PeekCase(fields)
	if len(extra) > 0 {
		c.Extra = extra
	}
	c.Migrated = migrated
	return nil
}

func (c PeekCase) MarshalJSON() ([]byte, error) {
	b, err := json.Marshal(peekCaseFields(c))
	if err != nil {
		return nil, err
	}
	if len(c.Extra) == 0 {
		return b, nil
	}

	keys := make([]string, 0, len(c.Extra))
	for k := range c.Extra {
		if _, ok := peekCaseKeys[k]; ok {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.Write(b[:len(b)-1])
	for _, k := range keys {
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(c.Extra[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func isEmptyJSON(v json.RawMessage) bool {
	s := string(bytes.TrimSpace(v))
	return s == "" || s == "null" || s == `""` || s == "0"
}
