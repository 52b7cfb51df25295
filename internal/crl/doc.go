// Package crl parses X.509 certificate revocation lists from a stream.
//
// A CRL can be far larger than the memory one is willing to spend on it, so
// the parser never holds more than one field at a time. Parse returns at
// well defined points and the caller pulls the data that became available:
//
//	c := crl.New(r, crl.WithHashSink(h))
//	stop := crl.StopNone
//	for stop != crl.StopReady {
//		var err error
//		if stop, err = c.Parse(stop); err != nil {
//			return err
//		}
//		switch stop {
//		case crl.StopBeginItems:
//			issuer, _ := c.Issuer()
//		case crl.StopGotItem:
//			item, _ := c.Item()
//		}
//	}
//	sv, _ := c.SignatureValue()
//
// Every octet of TBSCertList, headers included, is written to the hash sink
// in stream order before the signature is read. Verifying the signature is
// left to the caller; SignatureValue.Verify covers the common key types.
package crl
