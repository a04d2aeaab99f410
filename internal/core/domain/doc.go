// Package domain contains the core business entities for BrightQuery:
// conversation turns, extracted intents, and the snippet documents that
// ground each answer. Entities carry no behaviour beyond validation and
// formatting; all orchestration lives in the services package.
package domain
