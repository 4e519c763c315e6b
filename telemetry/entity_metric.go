// MIT License
//
// Copyright (c) 2026 Arsene Tochemey Gandote
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package telemetry

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	// KindAttribute tags a measurement with the entity kind.
	KindAttribute = attribute.Key("entity_kind")
	// OutcomeAttribute tags a measurement with the outcome of the call.
	OutcomeAttribute = attribute.Key("outcome")
	// StoreCallAttribute tags a store latency measurement with the call name.
	StoreCallAttribute = attribute.Key("store_call")
)

// EntityMetric defines the entity runtime metrics
type EntityMetric struct {
	entitiesCount     metric.Int64ObservableGauge
	activationCount   metric.Int64Counter
	deactivationCount metric.Int64Counter
	operationCount    metric.Int64Counter
	operationDuration metric.Float64Histogram
	storeDuration     metric.Float64Histogram
	expiredCount      metric.Int64Counter
	mailboxSize       metric.Int64ObservableGauge
}

// NewEntityMetric creates an instance of EntityMetric
func NewEntityMetric(meter metric.Meter) (*EntityMetric, error) {
	// create an instance of EntityMetric
	entityMetric := new(EntityMetric)
	var err error
	// set the resident entities instrument
	if entityMetric.entitiesCount, err = meter.Int64ObservableGauge(
		"entities_count",
		metric.WithDescription("Total number of entities resident in memory"),
	); err != nil {
		return nil, fmt.Errorf("failed to create entitiesCount instrument, %v", err)
	}
	// set the activations count instrument
	if entityMetric.activationCount, err = meter.Int64Counter(
		"entity_activation_count",
		metric.WithDescription("Total number of entity activations"),
	); err != nil {
		return nil, fmt.Errorf("failed to create activationCount instrument, %v", err)
	}
	// set the deactivations count instrument
	if entityMetric.deactivationCount, err = meter.Int64Counter(
		"entity_deactivation_count",
		metric.WithDescription("Total number of entity deactivations"),
	); err != nil {
		return nil, fmt.Errorf("failed to create deactivationCount instrument, %v", err)
	}
	// set the operations count instrument
	if entityMetric.operationCount, err = meter.Int64Counter(
		"entity_operation_count",
		metric.WithDescription("Total number of operations handled by entities"),
	); err != nil {
		return nil, fmt.Errorf("failed to create operationCount instrument, %v", err)
	}
	// set the operation duration instrument
	if entityMetric.operationDuration, err = meter.Float64Histogram(
		"entity_operation_duration",
		metric.WithDescription("The latency of entity operations in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, fmt.Errorf("failed to create operationDuration instrument, %v", err)
	}
	// set the store duration instrument
	if entityMetric.storeDuration, err = meter.Float64Histogram(
		"entity_store_duration",
		metric.WithDescription("The latency of state store calls in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, fmt.Errorf("failed to create storeDuration instrument, %v", err)
	}
	// set the expired operations count instrument
	if entityMetric.expiredCount, err = meter.Int64Counter(
		"entity_expired_operation_count",
		metric.WithDescription("Total number of operations dropped because the caller gave up"),
	); err != nil {
		return nil, fmt.Errorf("failed to create expiredCount instrument, %v", err)
	}
	// set the mailbox size instrument
	if entityMetric.mailboxSize, err = meter.Int64ObservableGauge(
		"entity_mailbox_size",
		metric.WithDescription("Total number of operations waiting in entity mailboxes"),
	); err != nil {
		return nil, fmt.Errorf("failed to create mailboxSize instrument, %v", err)
	}
	return entityMetric, nil
}

// EntitiesCount returns the resident entities gauge
func (x *EntityMetric) EntitiesCount() metric.Int64ObservableGauge {
	return x.entitiesCount
}

// ActivationCount returns the activations counter
func (x *EntityMetric) ActivationCount() metric.Int64Counter {
	return x.activationCount
}

// DeactivationCount returns the deactivations counter
func (x *EntityMetric) DeactivationCount() metric.Int64Counter {
	return x.deactivationCount
}

// OperationCount returns the operations counter
func (x *EntityMetric) OperationCount() metric.Int64Counter {
	return x.operationCount
}

// OperationDuration returns the operations latency histogram
func (x *EntityMetric) OperationDuration() metric.Float64Histogram {
	return x.operationDuration
}

// StoreDuration returns the state store latency histogram
func (x *EntityMetric) StoreDuration() metric.Float64Histogram {
	return x.storeDuration
}

// ExpiredCount returns the expired operations counter
func (x *EntityMetric) ExpiredCount() metric.Int64Counter {
	return x.expiredCount
}

// MailboxSize returns the mailbox size gauge
func (x *EntityMetric) MailboxSize() metric.Int64ObservableGauge {
	return x.mailboxSize
}
