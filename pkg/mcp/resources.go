package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	fqlGuideURI = "finscreener://guide/fql"
	aboutURI    = "finscreener://about"
)

func (s *FinscreenerMCPServer) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         fqlGuideURI,
		Name:        "fql-guide",
		Description: "FQL (FinScreener Query Language) syntax guide",
		MIMEType:    "text/markdown",
	}, staticResource(fqlGuideURI, fqlGuide))

	s.server.AddResource(&mcp.Resource{
		URI:         aboutURI,
		Name:        "about",
		Description: "About Finscreener and the available data",
		MIMEType:    "text/markdown",
	}, staticResource(aboutURI, aboutText))
}

func staticResource(uri, text string) mcp.ResourceHandler {
	return func(_ context.Context, _ *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{URI: uri, MIMEType: "text/markdown", Text: text}},
		}, nil
	}
}

const fqlGuide = `# FQL - FinScreener Query Language Guide

## Operators
- ` + "`==`" + ` (equals), ` + "`!=`" + ` (not equals)
- ` + "`>`" + `, ` + "`<`" + `, ` + "`>=`" + `, ` + "`<=`" + `
- ` + "`IN`" + ` - match any from list: ` + "`field IN ['value1', 'value2']`" + `
- ` + "`NOT IN`" + ` - exclude values
- ` + "`AND`" + `, ` + "`OR`" + ` - combine conditions
- ` + "`( )`" + ` - group conditions

## Company Fields (EXACT NAMES - Case Sensitive!)
| Field | Description | Example |
|-------|-------------|---------|
| CIN | Corporate ID | CIN == 'U12345MH2020PTC123456' |
| company | Company name | company CONTAINS 'Infosys' |
| City | City (uppercase C!) | City == 'Mumbai' |
| State | State name | State == 'Maharashtra' |
| District | District | District == 'Mumbai Suburban' |
| Pincode | 6-digit pincode | Pincode == 400001 |
| paidUpCapital | Paid-up capital (INR) | paidUpCapital > 10000000 |
| authorizedCapital | Authorized capital | authorizedCapital > 50000000 |
| NICCode | 5-digit industry code | NICCode IN [62011, 62012, 62020] |
| mainDivision | 2-digit NIC division | mainDivision == '62' |
| companyType | Type | companyType == 'Private' |
| classOfCompany | Class | classOfCompany == 'Private' |
| llpStatus | Status | llpStatus == 'Active' |
| Listed | Listed/Unlisted | Listed == 'Listed' |
| dateOfIncorporation | Date (YYYY-MM-DD) | dateOfIncorporation > '2020-01-01' |

## GST Fields (EXACT NAMES - Case Sensitive!)
| Field | Description | Example |
|-------|-------------|---------|
| GSTIN | 15-char GST number | GSTIN == '27AABCU9603R1ZM' |
| TradeName | Trade name | TradeName CONTAINS 'Tech' |
| LegalName | Legal name | |
| Status | Status | Status == 'Active' |
| state | State (lowercase!) | state == 'Maharashtra' |
| district | District | district == 'Mumbai' |
| TaxpayerType | Taxpayer type | TaxpayerType == 'Regular' |
| ConstitutionBusiness | Business type | ConstitutionBusiness == 'Private Limited' |
| BusinessActivities | Activity type | BusinessActivities == 'Factory / Manufacturing' |
| saccd | SAC service codes | saccd IN [999612, 999614] |
| hsncd | HSN goods codes | hsncd IN [5007, 5111] |
| Turnover | Turnover | Turnover > 10000000 |

## Industry Search (BEST PRACTICE)
NEVER use CONTAINS on descriptions - it's SLOW!
ALWAYS look up codes first, then use the IN operator - it's FAST!

1. Use lookup_nic_code to find industry codes
2. Use codes with NICCode IN [...]

Example for "tech companies in Mumbai":

    NICCode IN [62011, 62012, 62020, 46512] AND City == 'Mumbai'

Common NIC divisions:
- 62 = IT/Software
- 46 = Wholesale
- 47 = Retail
- 10 = Food manufacturing
- 13 = Textiles

## Examples

### Company Queries

    City == 'Mumbai' AND paidUpCapital > 10000000
    State == 'Karnataka' AND llpStatus == 'Active'
    NICCode IN [62011, 62012] AND City == 'Bangalore'
    mainDivision == '62' AND paidUpCapital > 50000000
    Listed == 'Listed' AND State == 'Maharashtra'
    dateOfIncorporation > '2023-01-01' AND llpStatus == 'Active'

### GST Queries

    state == 'Maharashtra' AND Status == 'Active'
    saccd IN [999612, 999614] AND state == 'Maharashtra'
    ConstitutionBusiness == 'Individual' AND state == 'Gujarat'
    BusinessActivities == 'Export' AND state == 'Tamil Nadu'
    hsncd IN [5007, 5111] AND BusinessActivities == 'Factory / Manufacturing'
`

const aboutText = `# About Finscreener

Finscreener provides comprehensive access to Indian business data:

## Data Available
- **MCA Data**: Company registrations (CIN), director details (DIN)
- **GST Data**: GST registrations (GSTIN), taxpayer information
- **Classifications**: NIC, HSN, SAC codes

## Key Features
- Search companies, directors, and GST registrations
- Run custom queries using FQL (FinScreener Query Language)
- Save queries as reusable screeners
- Create watchlists to monitor entities
- Order detailed contact information

## Authentication
Configure your API key in environment variables:
- FINSCREENER_API_KEY: Your API key (starts with fsk_)
- FINSCREENER_API_URL: API base URL (default: https://api.finscreener.in)
`
