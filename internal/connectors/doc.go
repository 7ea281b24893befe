// Package connectors groups implementations of the Connector interface.
// Each connector knows how to fetch raw profile bytes from one source type:
// a wiki character page or a LinkedIn profile via the Proxycurl API.
package connectors
