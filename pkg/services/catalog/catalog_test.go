package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudforge/stack-advisor/pkg/models/domain"
)

func TestNewCatalog_Builtins(t *testing.T) {
	c := NewCatalog()

	for _, kind := range []domain.ServiceKind{
		domain.KindCompute, domain.KindDatabase, domain.KindLoadBalancer,
		domain.KindCDN, domain.KindObjectStorage, domain.KindServerless,
	} {
		entry, ok := c.Lookup(kind)
		require.True(t, ok, "builtin kind %s missing", kind)
		assert.NotEmpty(t, entry.AWSServiceCode)
		assert.NotEmpty(t, entry.KnownOptions)
	}

	kinds := c.Kinds()
	assert.Len(t, kinds, len(builtin))
	assert.True(t, sortedKinds(kinds))
}

func sortedKinds(kinds []domain.ServiceKind) bool {
	for i := 1; i < len(kinds); i++ {
		if kinds[i-1] > kinds[i] {
			return false
		}
	}
	return true
}

func TestCatalog_Register(t *testing.T) {
	c := NewCatalog()

	err := c.Register(Entry{
		Kind:         domain.ServiceKind("queue"),
		Description:  "managed message queue",
		Bucket:       domain.BucketOther,
		KnownOptions: []string{"standard"},
	})
	require.NoError(t, err)

	_, ok := c.Lookup(domain.ServiceKind("queue"))
	assert.True(t, ok)

	assert.Error(t, c.Register(Entry{Kind: domain.ServiceKind("queue"), KnownOptions: []string{"standard"}}))
	assert.Error(t, c.Register(Entry{Kind: "", KnownOptions: []string{"x"}}))
	assert.Error(t, c.Register(Entry{Kind: domain.ServiceKind("empty")}))
}

func TestNormalizeKind(t *testing.T) {
	c := NewCatalog()

	tests := []struct {
		raw      string
		expected domain.ServiceKind
		ok       bool
	}{
		{"compute", domain.KindCompute, true},
		{"Compute", domain.KindCompute, true},
		{"  load-balancer  ", domain.KindLoadBalancer, true},
		{"EC2", domain.KindCompute, true},
		{"AmazonEC2", domain.KindCompute, true},
		{"amazon ec2", domain.KindCompute, true},
		{"RDS", domain.KindDatabase, true},
		{"ALB", domain.KindLoadBalancer, true},
		{"CloudFront", domain.KindCDN, true},
		{"S3", domain.KindObjectStorage, true},
		{"object_storage", domain.KindObjectStorage, true},
		{"Lambda", domain.KindServerless, true},
		{"SageMaker", domain.KindMLPlatform, true},
		{"quantum-annealer", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			kind, ok := NormalizeKind(c, tt.raw)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, kind)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	c := NewCatalog()

	assert.Equal(t, domain.BucketCompute, Classify(c, domain.KindCompute))
	assert.Equal(t, domain.BucketStorage, Classify(c, domain.KindDatabase))
	assert.Equal(t, domain.BucketNetworking, Classify(c, domain.KindCDN))
	assert.Equal(t, domain.BucketOther, Classify(c, domain.KindMonitoring))

	// Kinds the catalog never heard of classify by keyword.
	assert.Equal(t, domain.BucketCompute, Classify(c, domain.ServiceKind("gpu-server")))
	assert.Equal(t, domain.BucketStorage, Classify(c, domain.ServiceKind("backup-vault")))
	assert.Equal(t, domain.BucketNetworking, Classify(c, domain.ServiceKind("api-gateway")))
	assert.Equal(t, domain.BucketOther, Classify(c, domain.ServiceKind("mystery")))
}

func TestCritical(t *testing.T) {
	c := NewCatalog()

	assert.True(t, Critical(c, domain.KindCompute))
	assert.True(t, Critical(c, domain.KindDatabase))
	assert.True(t, Critical(c, domain.KindLoadBalancer))
	assert.False(t, Critical(c, domain.KindCDN))
	assert.False(t, Critical(c, domain.ServiceKind("unknown")))
}
