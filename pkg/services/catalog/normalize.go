package catalog

import (
	"strings"

	"github.com/cloudforge/stack-advisor/pkg/models/domain"
)

// aliases maps the names the reasoner tends to answer with (AWS service codes,
// marketing names, loose category words) onto catalog kinds.
var aliases = map[string]domain.ServiceKind{
	"ec2":                  domain.KindCompute,
	"amazonec2":            domain.KindCompute,
	"vm":                   domain.KindCompute,
	"virtual-machine":      domain.KindCompute,
	"rds":                  domain.KindDatabase,
	"amazonrds":            domain.KindDatabase,
	"db":                   domain.KindDatabase,
	"alb":                  domain.KindLoadBalancer,
	"elb":                  domain.KindLoadBalancer,
	"elasticloadbalancing": domain.KindLoadBalancer,
	"elasticloadbalancingv2": domain.KindLoadBalancer,
	"cloudfront":             domain.KindCDN,
	"amazoncloudfront":       domain.KindCDN,
	"waf":                    domain.KindWAF,
	"awswaf":                 domain.KindWAF,
	"s3":                     domain.KindObjectStorage,
	"amazons3":               domain.KindObjectStorage,
	"storage":                domain.KindObjectStorage,
	"objectstorage":          domain.KindObjectStorage,
	"elasticache":            domain.KindCache,
	"amazonelasticache":      domain.KindCache,
	"redis":                  domain.KindCache,
	"cloudwatch":             domain.KindMonitoring,
	"amazoncloudwatch":       domain.KindMonitoring,
	"route53":                domain.KindDNS,
	"amazonroute53":          domain.KindDNS,
	"lambda":                 domain.KindServerless,
	"awslambda":              domain.KindServerless,
	"sagemaker":              domain.KindMLPlatform,
	"amazonsagemaker":        domain.KindMLPlatform,
}

// NormalizeKind resolves a raw kind string from the reasoner to a registered
// catalog kind. Returns false when the name maps to nothing we can price.
func NormalizeKind(c Catalog, raw string) (domain.ServiceKind, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return "", false
	}

	if _, ok := c.Lookup(domain.ServiceKind(s)); ok {
		return domain.ServiceKind(s), true
	}

	key := strings.Map(func(r rune) rune {
		if r == ' ' || r == '_' {
			return -1
		}
		return r
	}, s)
	if kind, ok := aliases[key]; ok {
		if _, registered := c.Lookup(kind); registered {
			return kind, true
		}
	}
	return "", false
}
