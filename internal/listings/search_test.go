package listings

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const searchFixture = `<!DOCTYPE html>
<html>
<body>
<div class="placards">
  <article class="placard">
    <header>
      <h4><a href="/Listing/101-main-st-dallas-tx/12345/">Downtown Office Tower</a></h4>
      <a class="subtitle-beta" href="/Listing/101-main-st-dallas-tx/12345/">Dallas, TX 75201</a>
    </header>
    <div class="slide">
      <img class="image-hide" src="https://images.loopnet.com/office-tower.jpg" alt="Downtown Office Tower">
    </div>
    <ul class="data-points-2c">
      <li name="Price">$4,500,000</li>
      <li name="Building Size">25,000 SF</li>
      <li name="Property Type">Office</li>
    </ul>
    <div company-logo-carousel>
      <img src="https://images.loopnet.com/cbre.png" alt="CBRE">
    </div>
  </article>
  <article class="placard">
    <header>
      <h4><a href="https://www.loopnet.com/Listing/400-dock-rd-houston-tx/67890/">Industrial
        Warehouse</a></h4>
      <a class="subtitle-beta" href="#">Houston, TX 77001</a>
    </header>
    <div class="slide"><img src="https://images.loopnet.com/warehouse.jpg"></div>
    <ul class="data-points-2c">
      <li name="Price">$2,100,000</li>
      <li>52,000 SF</li>
    </ul>
    <div company-logo-carousel>
      <img src="https://images.loopnet.com/cw.png" alt="Cushman &amp; Wakefield">
    </div>
  </article>
  <article class="placard">
    <header>
      <h4><a href="/Listing/9-elm-ave-austin-tx/24680/">Retail Strip Center</a></h4>
      <a class="subtitle-beta" href="#">Austin, TX</a>
    </header>
    <div class="slide"><img src="https://images.loopnet.com/strip.jpg"></div>
    <ul class="data-points-2c">
      <li name="Price">Upon Request</li>
      <li>Retail Center</li>
    </ul>
  </article>
  <article class="placard">
    <header>
      <h4><a href="/Listing/77-sunset-blvd-sacramento-ca/13579/">Sunset Apartments</a></h4>
      <a class="subtitle-beta" href="#">Sacramento, CA 95825</a>
    </header>
    <div class="slide"><img src="https://images.loopnet.com/sunset.jpg"></div>
    <ul class="data-points-2c">
      <li name="Price">$6,200,000</li>
      <li>22 Unit Apartment Building</li>
      <li>6.59% Cap Rate</li>
    </ul>
  </article>
  <article class="placard">
    <header><h4><a href="/Listing/no-name/"></a></h4></header>
  </article>
</div>
<nav class="pagination">
  <a data-automation-id="NextPage" href="/search/commercial-real-estate/dallas-tx/for-sale/2/">Next</a>
</nav>
<span class="total-results-digits">1,204</span>
</body>
</html>`

func TestParseSearchResults(t *testing.T) {
	t.Parallel()

	results, err := ParseSearchResults(searchFixture, "")
	require.NoError(t, err)
	require.Len(t, results, 4, "placards without a name are skipped")

	first := results[0]
	require.Equal(t, "Downtown Office Tower", first.Name)
	require.Equal(t, "Dallas", first.City)
	require.Equal(t, "TX", first.State)
	require.Equal(t, "75201", first.ZipCode)
	require.Equal(t, "$4,500,000", first.Price)
	require.Equal(t, "25,000 SF", first.SizeSqft)
	require.Equal(t, "Office", first.PropertyType)
	require.Equal(t, "https://www.loopnet.com/Listing/101-main-st-dallas-tx/12345/", first.URL)
	require.Equal(t, "CBRE", first.BrokerCompany)
	require.Empty(t, first.BrokerName, "broker names are not present on search cards")
	require.Zero(t, first.Units)
	require.Empty(t, first.CapRate)

	second := results[1]
	require.Equal(t, "Industrial Warehouse", second.Name, "whitespace in names collapses")
	require.Equal(t, "$2,100,000", second.Price)
	require.Equal(t, "52,000 SF", second.SizeSqft, "unlabeled SF values classify as building size")
	require.Equal(t, "Cushman & Wakefield", second.BrokerCompany)

	third := results[2]
	require.Equal(t, "Retail Strip Center", third.Name)
	require.Empty(t, third.Price, "placeholder prices are dropped")
	require.Equal(t, "Retail Center", third.PropertyType)

	fourth := results[3]
	require.Equal(t, "Sunset Apartments", fourth.Name)
	require.Equal(t, 22, fourth.Units)
	require.Equal(t, "Apartment Building", fourth.PropertyType)
	require.Equal(t, "6.59%", fourth.CapRate)
}

func TestParseSearchResults_AbsoluteURLs(t *testing.T) {
	t.Parallel()

	results, err := ParseSearchResults(searchFixture, "")
	require.NoError(t, err)
	for _, r := range results {
		require.True(t, len(r.URL) > 0)
		require.Contains(t, r.URL, "https://www.loopnet.com")
		require.Contains(t, r.ImageURL, "https://")
	}
}

func TestParseSearchResults_EmptyHTML(t *testing.T) {
	t.Parallel()

	results, err := ParseSearchResults("", "")
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestParseTotalResults(t *testing.T) {
	t.Parallel()

	total, ok := ParseTotalResults(searchFixture)
	require.True(t, ok)
	require.Equal(t, 1204, total)

	_, ok = ParseTotalResults("<html><body>no count here</body></html>")
	require.False(t, ok)
}

func TestHasNextPage(t *testing.T) {
	t.Parallel()

	require.True(t, HasNextPage(searchFixture))
	require.False(t, HasNextPage(`<html><body><div class="pagination"></div></body></html>`))
}

func TestParseAddress(t *testing.T) {
	t.Parallel()

	full := parseAddress("101 Main St, Dallas, TX 75201")
	require.Equal(t, "101 Main St", full.address)
	require.Equal(t, "Dallas", full.city)
	require.Equal(t, "TX", full.state)
	require.Equal(t, "75201", full.zipCode)

	noZip := parseAddress("101 Main St, Dallas, TX")
	require.Equal(t, "101 Main St", noZip.address)
	require.Equal(t, "Dallas", noZip.city)
	require.Equal(t, "TX", noZip.state)
	require.Empty(t, noZip.zipCode)

	cityOnly := parseAddress("Sacramento, CA 95825")
	require.Equal(t, "Sacramento", cityOnly.address)
	require.Equal(t, "Sacramento", cityOnly.city)
	require.Equal(t, "CA", cityOnly.state)
	require.Equal(t, "95825", cityOnly.zipCode)

	single := parseAddress("Some Address")
	require.Equal(t, "Some Address", single.address)
	require.Empty(t, single.city)
	require.Empty(t, single.state)
	require.Empty(t, single.zipCode)
}
