package main

import (
	"bytes"
	"crypto/x509"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/KilimcininKorOglu/crlkit/internal/crl"
)

type parseOptions struct {
	issuerCert string
}

func newParseCmd(a *app) *cobra.Command {
	opts := &parseOptions{}

	cmd := &cobra.Command{
		Use:   "parse FILE...",
		Short: "Parse CRLs and print their contents",
		Long: `parse reads each FILE as a DER or PEM encoded CRL ("-" reads standard
input) and prints issuer, update times, extensions, revoked certificates and
the signature. With --issuer-cert the signature is verified as well.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runParse(opts, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.issuerCert, "issuer-cert", "", "verify signatures with the key of this certificate")
	flags.String("format", "", "report format (text, json)")
	flags.String("metrics-textfile", "", "write Prometheus metrics to this file")
	flags.Int("max-field-size", 0, "largest field the parser buffers, in octets")
	mustBind(a.v, "output.format", flags, "format")
	mustBind(a.v, "metrics.textfile", flags, "metrics-textfile")
	mustBind(a.v, "parser.maxFieldSize", flags, "max-field-size")
	return cmd
}

func (a *app) runParse(opts *parseOptions, files []string) error {
	var issuer *x509.Certificate
	if opts.issuerCert != "" {
		var err error
		if issuer, err = loadCertificate(opts.issuerCert); err != nil {
			return fmt.Errorf("issuer certificate: %w", err)
		}
	}

	jsonOutput := strings.EqualFold(a.cfg.Output.Format, "json")
	var reports []*report
	failed := 0
	for _, file := range files {
		start := time.Now()
		r, err := a.parseFile(file, issuer)
		elapsed := time.Since(start)

		log := a.logger.WithFields("file", file)
		if err != nil {
			failed++
			r.Error = err.Error()
			a.metrics.ObserveError(err, elapsed)
			log.Error("parse failed", "error", err.Error(), "duration", elapsed.String())
		} else {
			a.metrics.ObserveCRL(len(r.Entries), elapsed)
			log.Info("parsed", "entries", len(r.Entries), "duration", elapsed.String())
		}

		if jsonOutput {
			reports = append(reports, r)
		} else {
			writeText(a.stdout, r)
		}
	}

	if jsonOutput {
		if err := writeJSON(a.stdout, reports); err != nil {
			return err
		}
	}

	if path := a.cfg.Metrics.Textfile; path != "" {
		if err := a.metrics.WriteTextfile(path); err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d CRLs failed", failed, len(files))
	}
	return nil
}

// parseFile runs the parser over one CRL. The returned report is never nil
// and holds whatever was read before a failure.
func (a *app) parseFile(path string, issuer *x509.Certificate) (*report, error) {
	r := &report{File: path, Entries: []entryReport{}}

	src, closer, err := a.openCRL(path)
	if err != nil {
		return r, err
	}
	defer closer()

	digests := newDigestSet()
	c := crl.New(src,
		crl.WithHashSink(digests.writer()),
		crl.WithLogger(a.logger.WithFields("file", path)),
		crl.WithMaxFieldSize(a.cfg.Parser.MaxFieldSize),
		crl.WithHashBufferSize(a.cfg.Parser.HashBufferSize),
	)

	stop := crl.StopNone
	for stop != crl.StopReady {
		if stop, err = c.Parse(stop); err != nil {
			return r, err
		}

		switch stop {
		case crl.StopBeginItems:
			if err := fillHeader(r, c); err != nil {
				return r, err
			}
		case crl.StopGotItem:
			item, err := c.Item()
			if err != nil {
				return r, err
			}
			e := entryReport{
				Serial:         hexString(item.Serial),
				RevocationDate: string(item.RevocationDate),
			}
			if item.Reason != 0 {
				e.Reason = item.Reason.String()
			}
			r.Entries = append(r.Entries, e)
		case crl.StopEndItems:
			// crlExtensions follow in the next step
		}
	}

	fillExtensions(r, c)

	sv, err := c.SignatureValue()
	if err != nil {
		return r, err
	}
	r.Signature = &signatureReport{OID: sv.OID, Algorithm: sv.Algorithm, Hash: sv.Hash}

	if issuer == nil {
		return r, nil
	}
	if name, err := c.Issuer(); err == nil && !bytes.Equal(name.Raw, issuer.RawSubject) {
		a.logger.Warn("issuer certificate subject does not match CRL issuer",
			"file", path, "crl_issuer", name.DN, "subject", issuer.Subject.String())
	}
	verified, err := verifySignature(sv, digests, issuer)
	r.Signature.Verified = &verified
	return r, err
}

func fillHeader(r *report, c *crl.CRL) error {
	var err error
	if r.Version, err = c.Version(); err != nil {
		return err
	}
	issuer, err := c.Issuer()
	if err != nil {
		return err
	}
	r.Issuer = issuer.DN
	algo, err := c.DigestAlgorithm()
	if err != nil {
		return err
	}
	r.Algorithm = algo.OID
	this, next, err := c.UpdateTimes()
	if err != nil {
		return err
	}
	r.ThisUpdate, r.NextUpdate = string(this), string(next)
	return nil
}

// fillExtensions reports the crlExtensions. Failures to decode a known
// extension are reported but do not fail the parse.
func fillExtensions(r *report, c *crl.CRL) {
	for _, ext := range c.Extensions() {
		r.Extensions = append(r.Extensions, extensionReport{
			OID:      ext.OID,
			Critical: ext.Critical,
			Length:   len(ext.Value),
		})
	}

	if number, err := c.CRLNumber(); err == nil {
		r.CRLNumber = hexString(number)
	} else if !errors.Is(err, crl.ErrNoData) {
		r.CRLNumber = "invalid: " + err.Error()
	}

	aki, err := c.AuthorityKeyID()
	switch {
	case err == nil && aki.KeyID != nil:
		r.AuthorityKeyID = hexString(aki.KeyID)
	case err == nil:
		names := make([]string, len(aki.Issuer))
		for i, n := range aki.Issuer {
			names[i] = n.String()
		}
		r.AuthorityKeyID = strings.Join(names, "; ") + " serial " + hexString(aki.Serial)
	case !errors.Is(err, crl.ErrNoData):
		r.AuthorityKeyID = "invalid: " + err.Error()
	}
}

func verifySignature(sv *crl.SignatureValue, digests digestSet, issuer *x509.Certificate) (bool, error) {
	h, err := sv.HashFunc()
	if err != nil {
		return false, err
	}
	digest, err := digests.sum(h)
	if err != nil {
		return false, err
	}
	if err := sv.Verify(issuer.PublicKey, digest); err != nil {
		return false, err
	}
	return true, nil
}
