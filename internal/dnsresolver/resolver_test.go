package dnsresolver

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) ExchangeContext(ctx context.Context, msg *dns.Msg, addr string) (*dns.Msg, time.Duration, error) {
	args := m.Called(ctx, msg, addr)
	if resp := args.Get(0); resp != nil {
		return resp.(*dns.Msg), args.Get(1).(time.Duration), args.Error(2)
	}
	return nil, args.Get(1).(time.Duration), args.Error(2)
}

// matchQuery matches an outgoing DNS message by question type and name.
func matchQuery(host string, qtype uint16) interface{} {
	return mock.MatchedBy(func(msg *dns.Msg) bool {
		return len(msg.Question) > 0 &&
			msg.Question[0].Qtype == qtype &&
			msg.Question[0].Name == dns.Fqdn(host)
	})
}

func aRecord(host, ip string) dns.RR {
	return &dns.A{
		Hdr: dns.RR_Header{
			Name:   dns.Fqdn(host),
			Rrtype: dns.TypeA,
			Class:  dns.ClassINET,
			Ttl:    300,
		},
		A: net.ParseIP(ip),
	}
}

func aaaaRecord(host, ip string) dns.RR {
	return &dns.AAAA{
		Hdr: dns.RR_Header{
			Name:   dns.Fqdn(host),
			Rrtype: dns.TypeAAAA,
			Class:  dns.ClassINET,
			Ttl:    300,
		},
		AAAA: net.ParseIP(ip),
	}
}

type ResolverTestSuite struct {
	suite.Suite
	resolver *Client
	client   *mockClient
}

func (s *ResolverTestSuite) SetupTest() {
	s.client = new(mockClient)
	s.resolver = New(5 * time.Second)
	s.resolver.Client = s.client
}

func (s *ResolverTestSuite) TestNew() {
	testCases := []struct {
		name     string
		timeout  time.Duration
		opts     []Opt
		expected *Client
	}{
		{
			name:    "default configuration",
			timeout: 5 * time.Second,
			expected: &Client{
				Timeout: 5 * time.Second,
			},
		},
		{
			name:    "with custom resolvers",
			timeout: 5 * time.Second,
			opts: []Opt{
				WithResolvers([]string{"8.8.8.8:53", "8.8.4.4:53"}),
			},
			expected: &Client{
				Timeout:   5 * time.Second,
				Resolvers: []string{"8.8.8.8:53", "8.8.4.4:53"},
			},
		},
		{
			name:    "with custom timeout",
			timeout: 5 * time.Second,
			opts: []Opt{
				WithTimeout(10 * time.Second),
			},
			expected: &Client{
				Timeout: 10 * time.Second,
			},
		},
		{
			name:    "with retries",
			timeout: 5 * time.Second,
			opts: []Opt{
				WithRetries(2),
			},
			expected: &Client{
				Timeout: 5 * time.Second,
				Retries: 2,
			},
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			resolver := New(tc.timeout, tc.opts...)
			s.Equal(tc.expected.Timeout, resolver.Timeout)
			s.Equal(tc.expected.Resolvers, resolver.Resolvers)
			s.Equal(tc.expected.Retries, resolver.Retries)
		})
	}
}

func (s *ResolverTestSuite) TestLookupHost() {
	testCases := []struct {
		name        string
		hostname    string
		setupMock   func(*mockClient)
		expected    []string
		expectedErr error
	}{
		{
			name:        "empty hostname",
			hostname:    "",
			expectedErr: ErrEmptyHostname,
		},
		{
			name:     "hostname is IP",
			hostname: "1.1.1.1",
			expected: []string{"1.1.1.1"},
		},
		{
			name:     "successful A and AAAA lookup keeps v4 first",
			hostname: "example.com",
			setupMock: func(m *mockClient) {
				aResp := new(dns.Msg)
				aResp.Answer = []dns.RR{aRecord("example.com", "93.184.216.34")}

				aaaaResp := new(dns.Msg)
				aaaaResp.Answer = []dns.RR{aaaaRecord("example.com", "2606:2800:220:1:248:1893:25c8:1946")}

				m.On("ExchangeContext",
					mock.Anything,
					matchQuery("example.com", dns.TypeA),
					mock.Anything,
				).Return(aResp, time.Duration(0), nil)

				m.On("ExchangeContext",
					mock.Anything,
					matchQuery("example.com", dns.TypeAAAA),
					mock.Anything,
				).Return(aaaaResp, time.Duration(0), nil)
			},
			expected: []string{
				"93.184.216.34",
				"2606:2800:220:1:248:1893:25c8:1946",
			},
		},
		{
			name:     "A lookup success, AAAA lookup failure",
			hostname: "example.com",
			setupMock: func(m *mockClient) {
				aResp := new(dns.Msg)
				aResp.Answer = []dns.RR{aRecord("example.com", "93.184.216.34")}

				m.On("ExchangeContext",
					mock.Anything,
					matchQuery("example.com", dns.TypeA),
					mock.Anything,
				).Return(aResp, time.Duration(0), nil)

				m.On("ExchangeContext",
					mock.Anything,
					matchQuery("example.com", dns.TypeAAAA),
					mock.Anything,
				).Return(nil, time.Duration(0), ErrNoRecords)
			},
			expected: []string{"93.184.216.34"},
		},
		{
			name:     "duplicate answers are removed",
			hostname: "example.com",
			setupMock: func(m *mockClient) {
				aResp := new(dns.Msg)
				aResp.Answer = []dns.RR{
					aRecord("example.com", "93.184.216.34"),
					aRecord("example.com", "93.184.216.34"),
					aRecord("example.com", "23.215.0.138"),
				}

				m.On("ExchangeContext",
					mock.Anything,
					matchQuery("example.com", dns.TypeA),
					mock.Anything,
				).Return(aResp, time.Duration(0), nil)

				m.On("ExchangeContext",
					mock.Anything,
					matchQuery("example.com", dns.TypeAAAA),
					mock.Anything,
				).Return(nil, time.Duration(0), ErrNoRecords)
			},
			expected: []string{"93.184.216.34", "23.215.0.138"},
		},
		{
			name:     "both lookups fail",
			hostname: "nonexistent.example",
			setupMock: func(m *mockClient) {
				m.On("ExchangeContext",
					mock.Anything,
					matchQuery("nonexistent.example", dns.TypeA),
					mock.Anything,
				).Return(nil, time.Duration(0), ErrNoRecords)

				m.On("ExchangeContext",
					mock.Anything,
					matchQuery("nonexistent.example", dns.TypeAAAA),
					mock.Anything,
				).Return(nil, time.Duration(0), ErrNoRecords)
			},
			expectedErr: ErrNoRecords,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			// Reset mock for each test case
			s.SetupTest()

			if tc.setupMock != nil {
				tc.setupMock(s.client)
			}

			addrs, err := s.resolver.LookupHost(context.Background(), tc.hostname)

			if tc.expectedErr != nil {
				s.Error(err)
				s.ErrorContains(err, tc.expectedErr.Error())
				return
			}

			s.NoError(err)

			// Ordering is deterministic, so compare in sequence.
			actual := make([]string, len(addrs))
			for i, addr := range addrs {
				actual[i] = addr.IP.String()
			}
			s.Equal(tc.expected, actual)
			s.True(s.client.AssertExpectations(s.T()))
		})
	}
}

func (s *ResolverTestSuite) TestLookupRetries() {
	s.resolver.Retries = 1

	aResp := new(dns.Msg)
	aResp.Answer = []dns.RR{aRecord("example.com", "93.184.216.34")}

	// First attempt fails, second succeeds.
	s.client.On("ExchangeContext",
		mock.Anything,
		matchQuery("example.com", dns.TypeA),
		mock.Anything,
	).Return(nil, time.Duration(0), ErrEmptyMsg).Once()
	s.client.On("ExchangeContext",
		mock.Anything,
		matchQuery("example.com", dns.TypeA),
		mock.Anything,
	).Return(aResp, time.Duration(0), nil).Once()

	ips, err := s.resolver.lookup(context.Background(), "example.com", dns.TypeA)
	s.NoError(err)
	s.Len(ips, 1)
	s.Equal("93.184.216.34", ips[0].IP.String())
	s.client.AssertExpectations(s.T())
}

func (s *ResolverTestSuite) TestGetResolver() {
	testCases := []struct {
		name      string
		resolvers []string
		expected  string
	}{
		{
			name:     "no resolvers configured",
			expected: _defaultResolver,
		},
		{
			name:      "single resolver",
			resolvers: []string{"8.8.8.8:53"},
			expected:  "8.8.8.8:53",
		},
		{
			name:      "multiple resolvers",
			resolvers: []string{"8.8.8.8:53", "8.8.4.4:53"},
			expected:  "", // Will be checked differently due to randomness
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.resolver.Resolvers = tc.resolvers
			resolver := s.resolver.getResolver()

			if len(tc.resolvers) > 1 {
				s.Contains(tc.resolvers, resolver)
			} else {
				s.Equal(tc.expected, resolver)
			}
		})
	}
}

func (s *ResolverTestSuite) TestParseIPs() {
	testCases := []struct {
		name        string
		response    *dns.Msg
		expected    []net.IPAddr
		expectedErr error
	}{
		{
			name:        "nil response",
			response:    nil,
			expectedErr: ErrEmptyMsg,
		},
		{
			name: "empty answer",
			response: &dns.Msg{
				Answer: []dns.RR{},
			},
			expectedErr: ErrNoRecords,
		},
		{
			name: "valid A record",
			response: &dns.Msg{
				Answer: []dns.RR{
					&dns.A{
						A: net.ParseIP("93.184.216.34"),
					},
				},
			},
			expected: []net.IPAddr{
				{IP: net.ParseIP("93.184.216.34")},
			},
		},
		{
			name: "valid AAAA record",
			response: &dns.Msg{
				Answer: []dns.RR{
					&dns.AAAA{
						AAAA: net.ParseIP("2606:2800:220:1:248:1893:25c8:1946"),
					},
				},
			},
			expected: []net.IPAddr{
				{IP: net.ParseIP("2606:2800:220:1:248:1893:25c8:1946")},
			},
		},
		{
			name: "mixed A and AAAA records",
			response: &dns.Msg{
				Answer: []dns.RR{
					&dns.A{
						A: net.ParseIP("93.184.216.34"),
					},
					&dns.AAAA{
						AAAA: net.ParseIP("2606:2800:220:1:248:1893:25c8:1946"),
					},
				},
			},
			expected: []net.IPAddr{
				{IP: net.ParseIP("93.184.216.34")},
				{IP: net.ParseIP("2606:2800:220:1:248:1893:25c8:1946")},
			},
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			ips, err := parseIPs(tc.response)

			if tc.expectedErr != nil {
				s.Error(err)
				s.ErrorIs(err, tc.expectedErr)
				return
			}

			s.NoError(err)
			s.Equal(len(tc.expected), len(ips))
			for i, ip := range ips {
				s.Equal(tc.expected[i].IP.String(), ip.IP.String())
			}
		})
	}
}

func TestResolverSuite(t *testing.T) {
	suite.Run(t, new(ResolverTestSuite))
}
