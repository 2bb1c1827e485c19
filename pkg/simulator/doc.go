// Package simulator implements an in-process stand-in for the app store's
// listing and licensing service.
//
// A Simulator holds one immutable Snapshot built either from the host app
// manifest (InitializeDefault) or from an XML settings document (Reload).
// Queries read the current snapshot without locking. A reload that fails to
// parse leaves the previous snapshot in place, so callers never observe a
// partially applied document.
//
// A settings document looks like:
//
//	<CurrentApp>
//	  <ListingInformation>
//	    <App>
//	      <AppId>2B14D306-D8F8-4066-A45B-0FB3464C67F2</AppId>
//	      <LinkUri>http://apps.microsoft.com/webpdp/app/2B14D306-D8F8-4066-A45B-0FB3464C67F2</LinkUri>
//	      <CurrentMarket>en-US</CurrentMarket>
//	      <AgeRating>3</AgeRating>
//	      <MarketData>
//	        <Name>Full license</Name>
//	        <Price>4.99</Price>
//	        <CurrencySymbol>$</CurrencySymbol>
//	      </MarketData>
//	    </App>
//	    <Product ProductId="feature1">...</Product>
//	  </ListingInformation>
//	  <LicenseInformation>
//	    <App><IsActive>true</IsActive><IsTrial>false</IsTrial></App>
//	  </LicenseInformation>
//	  <Simulation>
//	    <DefaultResponse MethodName="LoadListingInformationAsync_GetResult" HResult="E_FAIL"/>
//	  </Simulation>
//	</CurrentApp>
package simulator
