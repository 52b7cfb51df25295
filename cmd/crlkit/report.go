package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

type entryReport struct {
	Serial         string `json:"serial"`
	RevocationDate string `json:"revocationDate"`
	Reason         string `json:"reason,omitempty"`
}

type extensionReport struct {
	OID      string `json:"oid"`
	Critical bool   `json:"critical,omitempty"`
	Length   int    `json:"length"`
}

type signatureReport struct {
	OID       string `json:"oid"`
	Algorithm string `json:"algorithm"`
	Hash      string `json:"hash,omitempty"`
	Verified  *bool  `json:"verified,omitempty"`
}

// report is everything crlkit prints about one CRL.
type report struct {
	File           string            `json:"file"`
	Version        int               `json:"version,omitempty"`
	Issuer         string            `json:"issuer,omitempty"`
	Algorithm      string            `json:"algorithm,omitempty"`
	ThisUpdate     string            `json:"thisUpdate,omitempty"`
	NextUpdate     string            `json:"nextUpdate,omitempty"`
	CRLNumber      string            `json:"crlNumber,omitempty"`
	AuthorityKeyID string            `json:"authorityKeyId,omitempty"`
	Extensions     []extensionReport `json:"extensions,omitempty"`
	Entries        []entryReport     `json:"entries"`
	Signature      *signatureReport  `json:"signature,omitempty"`
	Error          string            `json:"error,omitempty"`
}

func writeJSON(w io.Writer, reports []*report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(reports)
}

func writeText(w io.Writer, r *report) {
	field := func(name, value string) {
		if value != "" {
			fmt.Fprintf(w, "%-22s%s\n", name+":", value)
		}
	}

	field("File", r.File)
	if r.Version != 0 {
		field("Version", fmt.Sprint(r.Version))
	}
	field("Issuer", r.Issuer)
	field("Algorithm", r.Algorithm)
	field("This update", r.ThisUpdate)
	field("Next update", r.NextUpdate)
	field("CRL number", r.CRLNumber)
	field("Authority key id", r.AuthorityKeyID)
	if len(r.Extensions) > 0 {
		fmt.Fprintln(w, "Extensions:")
		for _, ext := range r.Extensions {
			crit := ""
			if ext.Critical {
				crit = " (critical)"
			}
			fmt.Fprintf(w, "  %s%s, %d octets\n", ext.OID, crit, ext.Length)
		}
	}
	if r.Error == "" || len(r.Entries) > 0 {
		fmt.Fprintf(w, "%-22s%d\n", "Revoked certificates:", len(r.Entries))
		for _, e := range r.Entries {
			fmt.Fprintf(w, "  %s  %s", e.Serial, e.RevocationDate)
			if e.Reason != "" {
				fmt.Fprintf(w, "  %s", e.Reason)
			}
			fmt.Fprintln(w)
		}
	}
	if sig := r.Signature; sig != nil {
		field("Signature", strings.TrimSpace(sig.Algorithm+" "+sig.Hash))
		if sig.Verified != nil {
			verdict := "no"
			if *sig.Verified {
				verdict = "yes"
			}
			field("Signature verified", verdict)
		}
	}
	field("Error", r.Error)
	fmt.Fprintln(w)
}

func hexString(b []byte) string {
	return strings.ToUpper(hex.EncodeToString(b))
}
