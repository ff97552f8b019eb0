package lamportmt

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestVerificationMetrics(t *testing.T) {
	valid := metrics.verifications.WithLabelValues("valid")
	invalid := metrics.verifications.WithLabelValues("invalid")
	nValid := testutil.ToFloat64(valid)
	nInvalid := testutil.ToFloat64(invalid)
	signed := testutil.ToFloat64(metrics.signatures.WithLabelValues("S1"))

	sig, err := testPrivateKey().Sign([]byte("count me"), 11)
	if err != nil {
		t.Fatalf("Sign(): %v", err)
	}
	Verify("count me", sig.String(), testAddress, 11)
	Verify("count me", sig.String(), testAddress, 12)
	Verify("count me", "garbage", testAddress, 11)

	if got := testutil.ToFloat64(valid) - nValid; got != 1 {
		t.Fatalf("Counted %v valid verifications", got)
	}
	if got := testutil.ToFloat64(invalid) - nInvalid; got != 2 {
		t.Fatalf("Counted %v invalid verifications", got)
	}
	if got := testutil.ToFloat64(metrics.signatures.WithLabelValues("S1")) - signed; got != 1 {
		t.Fatalf("Counted %v signatures", got)
	}
}

func TestRegisterMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	if err := RegisterMetrics(reg); err != nil {
		t.Fatalf("RegisterMetrics(): %v", err)
	}
	if err := RegisterMetrics(reg); err == nil {
		t.Fatalf("Registering twice should fail")
	}
	testTree() // makes sure a tree build was observed
	n, err := testutil.GatherAndCount(reg, "lamportmt_tree_build_seconds")
	if err != nil {
		t.Fatalf("GatherAndCount(): %v", err)
	}
	if n != 1 {
		t.Fatalf("Found %d tree build histograms", n)
	}
}
