// Package client talks to an Eos family lighting console over OSC.
//
// A Console owns one connection. Responses to /eos/get/ requests are matched
// to requests by package request, everything else the console sends is
// decoded into a Notification and delivered on Console.Notifications.
package client
