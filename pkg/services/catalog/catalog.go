package catalog

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/cloudforge/stack-advisor/pkg/models/domain"
)

// ScaleDriver says which usage dimension makes a kind's cost grow with the
// user scale.
type ScaleDriver string

const (
	DriverNone        ScaleDriver = "none"
	DriverTraffic     ScaleDriver = "traffic"     // CDN, WAF, load balancer
	DriverConcurrency ScaleDriver = "concurrency" // compute, serverless
	DriverVolume      ScaleDriver = "volume"      // storage, database
)

// Entry is the static metadata the pipeline knows about one service kind.
type Entry struct {
	Kind           domain.ServiceKind
	AWSServiceCode string
	Description    string
	Bucket         domain.CostBucket
	Critical       bool
	ScaleDriver    ScaleDriver
	// KnownOptions is the hand-curated option id list used when the pricing
	// oracle cannot enumerate a catalog, ordered roughly cheap to expensive.
	KnownOptions []string
}

// Catalog maps service kinds to their metadata. Kinds can be registered at
// wiring time, so a deployment can extend the built-in set without touching
// pipeline logic.
type Catalog interface {
	Register(e Entry) error
	Lookup(kind domain.ServiceKind) (Entry, bool)
	Kinds() []domain.ServiceKind
}

type catalog struct {
	mu      sync.RWMutex
	entries map[domain.ServiceKind]Entry
}

// NewCatalog returns a catalog pre-loaded with the built-in kinds.
func NewCatalog() Catalog {
	c := &catalog{entries: make(map[domain.ServiceKind]Entry)}
	for _, e := range builtin {
		// Built-in entries are unique by construction.
		_ = c.Register(e)
	}
	return c
}

func (c *catalog) Register(e Entry) error {
	if e.Kind == "" {
		return fmt.Errorf("service kind cannot be empty")
	}
	if len(e.KnownOptions) == 0 {
		return fmt.Errorf("kind %q must declare at least one known option", e.Kind)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[e.Kind]; exists {
		return fmt.Errorf("kind %q is already registered", e.Kind)
	}
	c.entries[e.Kind] = e
	return nil
}

func (c *catalog) Lookup(kind domain.ServiceKind) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[kind]
	return e, ok
}

func (c *catalog) Kinds() []domain.ServiceKind {
	c.mu.RLock()
	defer c.mu.RUnlock()

	kinds := make([]domain.ServiceKind, 0, len(c.entries))
	for k := range c.entries {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

var builtin = []Entry{
	{
		Kind:           domain.KindCompute,
		AWSServiceCode: "AmazonEC2",
		Description:    "virtual server instances with auto scaling",
		Bucket:         domain.BucketCompute,
		Critical:       true,
		ScaleDriver:    DriverConcurrency,
		KnownOptions:   []string{"t2.nano", "t2.micro", "t2.small", "t2.medium", "t3.medium", "t3.large"},
	},
	{
		Kind:           domain.KindDatabase,
		AWSServiceCode: "AmazonRDS",
		Description:    "managed relational database, multi-AZ capable",
		Bucket:         domain.BucketStorage,
		Critical:       true,
		ScaleDriver:    DriverVolume,
		KnownOptions:   []string{"db.t3.micro", "db.t3.small", "db.t3.medium", "db.t3.large"},
	},
	{
		Kind:           domain.KindLoadBalancer,
		AWSServiceCode: "ElasticLoadBalancingV2",
		Description:    "application load balancer for multi-instance traffic",
		Bucket:         domain.BucketNetworking,
		Critical:       true,
		ScaleDriver:    DriverTraffic,
		KnownOptions:   []string{"application"},
	},
	{
		Kind:           domain.KindCDN,
		AWSServiceCode: "AmazonCloudFront",
		Description:    "CDN for traffic distribution and DDoS absorption",
		Bucket:         domain.BucketNetworking,
		ScaleDriver:    DriverTraffic,
		KnownOptions:   []string{"standard"},
	},
	{
		Kind:           domain.KindWAF,
		AWSServiceCode: "AWSWAF",
		Description:    "web application firewall",
		Bucket:         domain.BucketNetworking,
		ScaleDriver:    DriverTraffic,
		KnownOptions:   []string{"standard"},
	},
	{
		Kind:           domain.KindObjectStorage,
		AWSServiceCode: "AmazonS3",
		Description:    "object storage for static content and backups",
		Bucket:         domain.BucketStorage,
		ScaleDriver:    DriverVolume,
		KnownOptions:   []string{"standard", "intelligent-tiering"},
	},
	{
		Kind:           domain.KindCache,
		AWSServiceCode: "AmazonElastiCache",
		Description:    "in-memory cache for read-heavy workloads",
		Bucket:         domain.BucketCompute,
		ScaleDriver:    DriverConcurrency,
		KnownOptions:   []string{"cache.t3.micro", "cache.t3.small", "cache.t3.medium"},
	},
	{
		Kind:           domain.KindMonitoring,
		AWSServiceCode: "AmazonCloudWatch",
		Description:    "metrics, alarms and dashboards",
		Bucket:         domain.BucketOther,
		ScaleDriver:    DriverNone,
		KnownOptions:   []string{"standard"},
	},
	{
		Kind:           domain.KindDNS,
		AWSServiceCode: "AmazonRoute53",
		Description:    "DNS with health-check failover",
		Bucket:         domain.BucketNetworking,
		ScaleDriver:    DriverNone,
		KnownOptions:   []string{"standard"},
	},
	{
		Kind:           domain.KindServerless,
		AWSServiceCode: "AWSLambda",
		Description:    "serverless functions billed per request",
		Bucket:         domain.BucketCompute,
		ScaleDriver:    DriverConcurrency,
		KnownOptions:   []string{"requests"},
	},
	{
		Kind:           domain.KindMLPlatform,
		AWSServiceCode: "AmazonSageMaker",
		Description:    "managed training and inference",
		Bucket:         domain.BucketCompute,
		ScaleDriver:    DriverConcurrency,
		KnownOptions:   []string{"ml.t3.medium", "ml.t3.large"},
	},
}

// Classify maps a service kind onto a cost bucket. Unknown kinds (the reasoner
// is free to invent them) are classified by keyword, defaulting to "other".
func Classify(c Catalog, kind domain.ServiceKind) domain.CostBucket {
	if e, ok := c.Lookup(kind); ok {
		return e.Bucket
	}

	s := strings.ToLower(string(kind))
	switch {
	case containsAny(s, "compute", "instance", "server", "container", "function", "ml"):
		return domain.BucketCompute
	case containsAny(s, "storage", "database", "db", "backup", "bucket"):
		return domain.BucketStorage
	case containsAny(s, "cdn", "network", "dns", "balanc", "firewall", "waf", "gateway"):
		return domain.BucketNetworking
	}
	return domain.BucketOther
}

// Critical reports whether the squeezer must preserve the kind.
func Critical(c Catalog, kind domain.ServiceKind) bool {
	e, ok := c.Lookup(kind)
	return ok && e.Critical
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
