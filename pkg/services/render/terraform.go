// Package render turns a finished optimization into deployable artifacts.
package render

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/cloudforge/stack-advisor/pkg/models/domain"
)

var terraformTmpl = template.Must(template.New("terraform").Parse(`provider "aws" {
  region = "{{ .Region }}"
}
{{ range .Blocks }}
{{ . }}
{{- end }}
`))

type terraformInput struct {
	Region string
	Blocks []string
}

// Terraform renders an HCL starting point for the selected stack. Only kinds
// with a meaningful single-resource shape get a block; the rest are listed as
// comments so the operator knows they still need wiring.
func Terraform(result domain.OptimizationResult) (string, error) {
	input := terraformInput{Region: result.Region}
	if input.Region == "" {
		input.Region = "us-east-1"
	}

	for _, sel := range result.Selections {
		input.Blocks = append(input.Blocks, resourceBlock(sel))
	}

	var buf strings.Builder
	if err := terraformTmpl.Execute(&buf, input); err != nil {
		return "", fmt.Errorf("failed to render terraform config: %w", err)
	}
	return buf.String(), nil
}

func resourceBlock(sel domain.SelectedService) string {
	switch sel.Kind {
	case domain.KindCompute:
		return fmt.Sprintf(`resource "aws_instance" "app" {
  ami           = "ami-0c02fb55956c7d316"
  instance_type = %q
  count         = %d

  tags = {
    Name = "stack-advisor-app"
  }
}`, sel.OptionID, sel.Quantity)
	case domain.KindDatabase:
		return fmt.Sprintf(`resource "aws_db_instance" "main" {
  identifier          = "stack-advisor-db"
  engine              = "mysql"
  engine_version      = "8.0"
  instance_class      = %q
  allocated_storage   = 20
  skip_final_snapshot = true
}`, sel.OptionID)
	case domain.KindLoadBalancer:
		return `resource "aws_lb" "main" {
  name               = "stack-advisor-lb"
  load_balancer_type = "application"
}`
	case domain.KindObjectStorage:
		return `resource "aws_s3_bucket" "assets" {
  bucket_prefix = "stack-advisor-"
}`
	case domain.KindCDN:
		return `resource "aws_cloudfront_distribution" "cdn" {
  enabled = true

  default_cache_behavior {
    target_origin_id       = "stack-advisor-origin"
    viewer_protocol_policy = "redirect-to-https"
    allowed_methods        = ["GET", "HEAD"]
    cached_methods         = ["GET", "HEAD"]
  }
}`
	case domain.KindServerless:
		return `resource "aws_lambda_function" "app" {
  function_name = "stack-advisor-fn"
  runtime       = "provided.al2023"
  handler       = "bootstrap"
}`
	case domain.KindCache:
		return fmt.Sprintf(`resource "aws_elasticache_cluster" "cache" {
  cluster_id      = "stack-advisor-cache"
  engine          = "redis"
  node_type       = %q
  num_cache_nodes = %d
}`, sel.OptionID, sel.Quantity)
	default:
		return fmt.Sprintf("# %s (%s x%d): provision manually", sel.Kind, sel.OptionID, sel.Quantity)
	}
}
